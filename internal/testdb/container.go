//go:build integration

package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

func init() {
	postgresURL = func(t testing.TB) string {
		t.Helper()

		if url := GetTestDatabaseURL(); url != "" {
			return url
		}

		containerOnce.Do(func() {
			containerURL, containerErr = startPostgres(context.Background())
		})
		if containerErr != nil {
			t.Skipf("could not start postgres container: %v", containerErr)
		}
		return containerURL
	}
}

// startPostgres runs a throwaway PostgreSQL container. The testcontainers
// reaper removes it when the test binary exits.
func startPostgres(ctx context.Context) (string, error) {
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("bookshelf_test"),
		postgres.WithUsername("bookshelf"),
		postgres.WithPassword("bookshelf"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", err
	}

	return ctr.ConnectionString(ctx, "sslmode=disable")
}
