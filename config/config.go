package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Server
	ServerPort string

	// Artifact output root
	OutputDir string

	// Worker idle re-poll interval
	WorkerPollInterval time.Duration

	// Optional YAML file overriding the validation thresholds
	ValidationRules string

	// Logging: "debug", "info", "warn" or "error"
	LogLevel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		OutputDir:       getEnv("OUTPUT_DIR", "outputs"),
		ValidationRules: getEnv("VALIDATION_RULES", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	interval, err := time.ParseDuration(getEnv("WORKER_POLL_INTERVAL", "100ms"))
	if err != nil {
		return nil, fmt.Errorf("parse WORKER_POLL_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("WORKER_POLL_INTERVAL must be positive")
	}
	cfg.WorkerPollInterval = interval

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
