package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"paisa/internal/advisory"
	"paisa/internal/auth"
	"paisa/internal/charts"
	"paisa/internal/cli"
	"paisa/internal/config"
	"paisa/internal/ledger"
	"paisa/internal/log"
	"paisa/internal/report"
	"paisa/internal/session"
	"paisa/internal/storage"
)

func main() {
	// os.Exit skips deferred calls, so all cleanup lives in run.
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel).
		WithComponent(log.ComponentApp).
		With(log.FieldSessionID, uuid.NewString())
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", log.FieldError, err, "path", cfg.DBPath)
		return 1
	}
	defer repo.Close()

	var gen advisory.TextGenerator
	if cfg.AdvisoryEnabled() {
		g, err := advisory.NewGeminiGenerator(ctx, advisory.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
		})
		if err != nil {
			// Advice is optional; the session degrades rather than aborts.
			logger.Warn("Gemini client unavailable", log.FieldError, err)
		} else {
			gen = g
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, AI insights disabled")
	}

	ctrl := session.New(
		auth.NewService(repo),
		ledger.NewService(repo),
		report.NewService(repo),
		advisory.NewService(repo, gen, cfg.AdvisoryTimeout),
		charts.NewViewer(),
		session.NewTermPrompter(os.Stdin, os.Stdout),
		os.Stdout,
		logger.WithComponent(log.ComponentSession),
	)
	return ctrl.Run(ctx)
}
