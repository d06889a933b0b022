package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 30 * time.Second

// postgresURL resolves the PostgreSQL server tests should use, or "" for
// SQLite. Builds with the integration tag replace it.
var postgresURL = func(t testing.TB) string {
	t.Helper()
	return GetTestDatabaseURL()
}

// GetTestDatabaseURL returns the configured PostgreSQL URL for tests, if any.
func GetTestDatabaseURL() string {
	if url := os.Getenv("BOOKSHELF_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// Open returns a migrated database handle private to t.
func Open(t testing.TB) (store.DBTX, sqlstore.Dialect) {
	t.Helper()

	if url := postgresURL(t); url != "" {
		return openPostgresTx(t, url), sqlstore.Postgres
	}
	return OpenSQLite(t), sqlstore.SQLite
}

// OpenSQLite returns a fresh, migrated in-memory SQLite database that is
// closed when t completes.
func OpenSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	cfg := config.DatabaseConfig{
		URL: fmt.Sprintf("file:testdb-%s?mode=memory&cache=shared", uuid.NewString()),
	}

	db, dialect, err := sqlstore.Open(ctx, cfg, discardLogger())
	require.NoError(t, err, "failed to open sqlite test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db.DB, dialect), "failed to migrate sqlite test database")
	return db
}

var (
	pgOnce sync.Once
	pgDB   *sqlx.DB
	pgErr  error
)

// openPostgresTx connects once per test binary, migrates, and hands each
// test a transaction that is rolled back on cleanup.
func openPostgresTx(t testing.TB, url string) *sqlx.Tx {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()

		cfg := config.DatabaseConfig{URL: url, MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: time.Minute}
		pgDB, _, pgErr = sqlstore.Open(ctx, cfg, discardLogger())
		if pgErr != nil {
			return
		}
		pgErr = sqlstore.Migrate(ctx, pgDB.DB, sqlstore.Postgres)
	})
	if pgErr != nil {
		t.Skipf("postgres test database unavailable: %v", pgErr)
	}

	tx, err := pgDB.BeginTxx(context.Background(), &sql.TxOptions{})
	require.NoError(t, err, "failed to begin test transaction")
	t.Cleanup(func() { _ = tx.Rollback() })

	return tx
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
