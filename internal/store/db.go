package store

import "github.com/jmoiron/sqlx"

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sqlx.DB and *sqlx.Tx, allowing store code
// to work with either a connection pool or a transaction.
type DBTX interface {
	sqlx.ExtContext
}
