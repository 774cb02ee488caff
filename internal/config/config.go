package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// SQLite store
	DBPath string

	// Gemini advisory endpoint
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	// Outbound advisory call bound
	AdvisoryTimeout time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath: getEnv("PAISA_DB_PATH", "./data/paisa.db"),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", ""),

		AdvisoryTimeout: getEnvDuration("ADVISORY_TIMEOUT", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// The store directory is created by the repository constructor, not here.
	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}

	if c.AdvisoryTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid advisory timeout %v: must be at least 1 second", c.AdvisoryTimeout))
	} else if c.AdvisoryTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid advisory timeout %v: must be at most 10 minutes", c.AdvisoryTimeout))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AdvisoryEnabled reports whether an API key is configured for the
// external advisory endpoint.
func (c *Config) AdvisoryEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
