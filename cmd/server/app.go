package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/metrics"
	"github.com/phrazzld/bookshelf-api/internal/platform/ratelimit"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sqlx.DB
	dialect sqlstore.Dialect

	authorStore store.AuthorStore
	bookStore   store.BookStore

	// limiter is nil when rate limiting is disabled.
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
}

// newApplication creates a new application instance with all dependencies
// initialized. The database must already be open and migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sqlx.DB, dialect sqlstore.Dialect) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		dialect: dialect,
		metrics: metrics.New(),
	}

	app.authorStore = sqlstore.NewAuthorStore(db, dialect, logger)
	app.bookStore = sqlstore.NewBookStore(db, dialect, logger)

	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.New(cfg.RateLimit, logger.With(slog.String("component", "rate_limiter")))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		app.limiter = limiter
		logger.Info("rate limiting enabled",
			slog.String("backend", cfg.RateLimit.Backend),
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Duration("window", cfg.RateLimit.Window))
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// cleanup releases the resources the application owns.
func (app *application) cleanup() {
	if closer, ok := app.limiter.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("error closing rate limiter", slog.Any("error", err))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("application shutdown completed")
}
