package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the composition root needs to wire the
// application. Leaving the database host empty selects local mode (in-memory
// adapters); leaving the kafka hosts empty selects the in-memory broker.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHosts         string
	KafkaConsumerGroup string

	MatchingWindow time.Duration
}

// DatabaseConfigured reports whether a postgres connection was configured.
func (c Config) DatabaseConfigured() bool {
	return c.DBHost != ""
}

// KafkaConfigured reports whether a kafka broker was configured.
func (c Config) KafkaConfigured() bool {
	return c.KafkaHosts != ""
}

// PostgresDSN builds the gorm connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
