package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-based configuration for the notifier. CLI flags
// layered on top may override any of it.
type Config struct {
	// AWS credentials/region
	AWSRegion  string
	AWSProfile string

	// SlackSecretName references the secret holding {"token","channel"}.
	SlackSecretName string

	// ReportType is the default breakdown dimension: "services" or
	// "accounts".
	ReportType string

	// Scheduler settings (serve mode)
	Schedule       string
	CheckpointPath string
	MetricsAddr    string
	RetryAttempts  uint64
	RetryInterval  time.Duration

	LogLevel string
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for a daily morning report.
func Load() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSProfile:      os.Getenv("AWS_PROFILE"),
		SlackSecretName: os.Getenv("SLACK_SECRET_NAME"),
		ReportType:      getEnv("REPORT_TYPE", "services"),
		Schedule:        getEnv("REPORT_SCHEDULE", "0 9 * * *"),
		CheckpointPath:  getEnv("CHECKPOINT_DB", "checkpoints.db"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9090"),
		RetryAttempts:   getEnvUint("RETRY_ATTEMPTS", 3),
		RetryInterval:   getEnvDuration("RETRY_INTERVAL", 30*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
