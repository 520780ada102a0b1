// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration, loaded from environment
// variables. DATABASE_URL is the only required setting.
type Config struct {
	Port        int    // HTTP listen port
	DatabaseURL string // PostgreSQL connection URL
	RedisAddr   string // Optional Redis address for the unread-notification cache
	PassSecret  string // HMAC secret for attendance passes

	// ReliabilityStep is the per-rating adjustment applied to a worker's
	// reliability score.
	ReliabilityStep float64
}

// Load reads the service configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		PassSecret:      os.Getenv("QR_PASS_SECRET"),
		ReliabilityStep: getEnvFloat("RELIABILITY_STEP", 0.1),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be in 1-65535, got %d", c.Port)
	}
	if c.ReliabilityStep < 0 || c.ReliabilityStep > 1 {
		return fmt.Errorf("config error: RELIABILITY_STEP must be in 0-1, got %g", c.ReliabilityStep)
	}
	return nil
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float with a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
