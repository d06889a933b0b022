// Package testdb provides isolated, migrated databases for tests.
//
// By default every call to Open returns a private in-memory SQLite database,
// so tests need no external services and may run in parallel. When
// BOOKSHELF_TEST_DATABASE_URL (or DATABASE_URL) names a PostgreSQL server, the
// same tests run against it instead: the schema is migrated once and each
// test works inside its own transaction, which is rolled back when the test
// completes.
//
// Building with the integration tag starts a disposable PostgreSQL container
// through testcontainers-go whenever no URL is configured.
//
// Basic usage:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//
//	    db, dialect := testdb.Open(t)
//	    authors := sqlstore.NewAuthorStore(db, dialect, nil)
//	    // ...
//	}
package testdb
