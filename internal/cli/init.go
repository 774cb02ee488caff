// Package cli provides common startup utilities for cmd/paisa: logging and
// .env loading. Fatal-path handling stays with the caller so its deferred
// cleanup runs before the process exits.
package cli

import (
	"github.com/joho/godotenv"

	"paisa/internal/log"
)

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Handler = nil
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}
