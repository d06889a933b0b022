package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
)

// runMigrations executes a single migration command against db.
func runMigrations(ctx context.Context, db *sql.DB, dialect sqlstore.Dialect, command string, logger *slog.Logger) error {
	m, err := sqlstore.NewMigrator(db, dialect)
	if err != nil {
		return err
	}

	logger = logger.With(slog.String("command", command), slog.String("dialect", dialect.Name))

	switch command {
	case "up":
		results, err := m.Up(ctx)
		for _, res := range results {
			logger.Info("migration applied",
				slog.Int64("version", res.Source.Version),
				slog.String("path", res.Source.Path),
				slog.Duration("duration", res.Duration))
		}
		if err != nil {
			return err
		}
		if len(results) == 0 {
			logger.Info("no pending migrations")
		}
	case "down":
		res, err := m.Down(ctx)
		if err != nil {
			return err
		}
		logger.Info("migration rolled back",
			slog.Int64("version", res.Source.Version),
			slog.String("path", res.Source.Path))
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, st := range statuses {
			attrs := []any{
				slog.Int64("version", st.Source.Version),
				slog.String("path", st.Source.Path),
				slog.String("state", string(st.State)),
			}
			if !st.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", st.AppliedAt))
			}
			logger.Info("migration status", attrs...)
		}
	case "version":
		version, err := m.Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		logger.Info("current schema version", slog.Int64("version", version))
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}

	return nil
}
