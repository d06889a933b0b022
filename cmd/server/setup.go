package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/redact"
)

// loadAppConfig loads the application configuration from environment
// variables and the optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the process-wide logger from the server settings.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.String("addr", cfg.Server.Addr()),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		slog.Bool("docs_enabled", cfg.Docs.Enabled))
	return l, nil
}

// setupAppDatabase opens the configured database and verifies the
// connection.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlx.DB, sqlstore.Dialect, error) {
	logger.Debug("connecting to database", slog.String("url", redact.URL(cfg.Database.URL)))

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("failed to set up database: %s", redact.Error(err))
	}
	return db, dialect, nil
}
