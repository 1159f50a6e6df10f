package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"marketplace/internal/core/application/usecases/commands"
)

// MatchingExpiryJob sweeps every second for deliveries that waited for a
// rider longer than the matching window and rejects them.
type MatchingExpiryJob struct {
	handler commands.ExpireMatchingCommandHandler
	window  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewMatchingExpiryJob creates the expiry sweep with the given window.
func NewMatchingExpiryJob(
	handler commands.ExpireMatchingCommandHandler,
	window time.Duration,
	logger *slog.Logger,
) *MatchingExpiryJob {
	return &MatchingExpiryJob{
		handler: handler,
		window:  window,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "matching_expiry_job"),
	}
}

// Start schedules the expiry sweep to run every second.
func (j *MatchingExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewExpireMatchingCommand(time.Now(), j.window)
		if err != nil {
			j.logger.ErrorContext(ctx, "building expiry sweep command failed", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "matching expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "matching expiry job started (running every second)")
	return nil
}

// Stop stops the expiry sweep.
func (j *MatchingExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "matching expiry job stopped")
}
