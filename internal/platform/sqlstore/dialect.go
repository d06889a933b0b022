package sqlstore

import (
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
)

// Dialect captures what differs between the supported database engines.
type Dialect struct {
	// Name identifies the dialect and its migrations directory.
	Name string
	// Driver is the database/sql driver name.
	Driver      string
	placeholder sq.PlaceholderFormat
	goose       goose.Dialect
}

// Supported dialects.
var (
	Postgres = Dialect{Name: "postgres", Driver: "pgx", placeholder: sq.Dollar, goose: goose.DialectPostgres}
	SQLite   = Dialect{Name: "sqlite", Driver: "sqlite3", placeholder: sq.Question, goose: goose.DialectSQLite3}
)

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (d Dialect) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

// String implements fmt.Stringer.
func (d Dialect) String() string { return d.Name }

// Resolve picks the dialect for a database URL and returns the DSN to hand to
// its driver. SQLite DSNs always get foreign key enforcement switched on.
func Resolve(databaseURL string) (Dialect, string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return Dialect{}, "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return Postgres, databaseURL, nil
	case "file":
		return SQLite, withForeignKeys(databaseURL), nil
	case "sqlite", "sqlite3":
		dsn := strings.TrimPrefix(databaseURL, u.Scheme+":")
		dsn = strings.TrimPrefix(dsn, "//")
		if dsn == "" {
			return Dialect{}, "", fmt.Errorf("invalid database URL: missing sqlite path")
		}
		return SQLite, withForeignKeys(dsn), nil
	default:
		return Dialect{}, "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
