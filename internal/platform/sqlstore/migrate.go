package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations of one dialect.
type Migrator struct {
	provider *goose.Provider
}

// NewMigrator prepares the migrations of dialect d for db.
func NewMigrator(db *sql.DB, d Dialect) (*Migrator, error) {
	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", d.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s migrations: %w", d.Name, err)
	}

	provider, err := goose.NewProvider(d.goose, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{provider: provider}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return results, nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to roll back migration: %w", err)
	}
	return result, nil
}

// Status reports every known migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return m.provider.Status(ctx)
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return m.provider.GetDBVersion(ctx)
}

// Migrate applies every pending migration of dialect d to db.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	m, err := NewMigrator(db, d)
	if err != nil {
		return err
	}
	_, err = m.Up(ctx)
	return err
}
