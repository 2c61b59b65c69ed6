// Package main implements the entry point for the mnemo-api server,
// which schedules spaced-repetition flashcard reviews for its users.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/rowanfell/mnemo-api/internal/config"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
	"github.com/rowanfell/mnemo-api/internal/platform/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
	}()

	if os.Getenv("MNEMO_SKIP_MIGRATIONS") != "true" {
		if err := postgres.MigrateUp(context.Background(), db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("database migrations applied")
	}

	app, err := newApplication(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
