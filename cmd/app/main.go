package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"marketplace/cmd"
)

const defaultMatchingWindow = 2 * time.Minute

func main() {
	config := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	root, err := cmd.NewCompositionRoot(config, logger)
	if err != nil {
		logger.Error("building composition root failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root.SubscribeEventHandlers()
	root.RunConsumers(ctx)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("starting jobs failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err = root.Close(); err != nil {
		logger.Error("closing adapters failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:           envOr("HTTP_PORT", "8080"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             envOr("DB_PORT", "5432"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          envOr("DB_SSLMODE", "disable"),
		KafkaHosts:         os.Getenv("KAFKA_HOSTS"),
		KafkaConsumerGroup: envOr("KAFKA_CONSUMER_GROUP", "marketplace"),
		MatchingWindow:     matchingWindow(),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func matchingWindow() time.Duration {
	raw := os.Getenv("MATCHING_WINDOW")
	if raw == "" {
		return defaultMatchingWindow
	}
	window, err := time.ParseDuration(raw)
	if err != nil || window <= 0 {
		slog.Warn("invalid MATCHING_WINDOW, using default",
			"value", raw, "default", defaultMatchingWindow)
		return defaultMatchingWindow
	}
	return window
}
