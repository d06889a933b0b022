// Package sqlstore provides SQL implementations of the store interfaces for
// PostgreSQL and SQLite. Queries are built with squirrel using the
// placeholder style of the selected dialect and executed through sqlx, so the
// same store code runs against either engine and inside or outside a
// transaction.
package sqlstore
