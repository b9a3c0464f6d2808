// Package config centralises configuration parsing for the activity signup service.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the activity signup service.
type Config struct {
	HTTPAddress        string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	StaticDir          string // Empty serves the embedded landing page.
	CatalogFile        string // Empty seeds from the embedded catalog.
	LogLevel           slog.Level
	CORSAllowedOrigin  string
	KafkaBrokers       []string // Empty disables signup event publishing.
	SignupTopic        string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxBuffer       int
	ConsumerGroupID    string
	MetricsAddress     string
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	return Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		ReadTimeout:        getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:       getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:        getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
		StaticDir:          getEnv("STATIC_DIR", ""),
		CatalogFile:        getEnv("CATALOG_FILE", ""),
		LogLevel:           getLevelEnv("LOG_LEVEL", slog.LevelInfo),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		SignupTopic:        getEnv("SIGNUP_TOPIC", "activity_signups"),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		OutboxBuffer:       getIntEnv("OUTBOX_BUFFER", 1024),
		ConsumerGroupID:    getEnv("CONSUMER_GROUP_ID", "activity-signup-consumer"),
		MetricsAddress:     getEnv("METRICS_ADDRESS", ":9195"),
	}
}

// EventsEnabled reports whether signup events should be published to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getLevelEnv(key string, fallback slog.Level) slog.Level {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return fallback
}
