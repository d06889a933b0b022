// Package main implements the entry point for the bookshelf API server,
// which serves authors and their books over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "bookshelf-api: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run wires the process together. With a non-empty migrateCmd it only
// executes that migration command; otherwise it migrates the schema and
// serves until ctx is canceled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, dialect, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db.DB, dialect, migrateCmd, logger)
	}

	if err := sqlstore.Migrate(ctx, db.DB, dialect); err != nil {
		_ = db.Close()
		return err
	}
	logger.Info("database schema is up to date", slog.String("dialect", dialect.Name))

	app, err := newApplication(cfg, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
