// Package main implements a command that fills the configured database with
// fake authors for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/redact"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

func main() {
	count := flag.Int("n", 100, "number of authors to create")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one at random)")
	flag.Parse()

	if err := run(context.Background(), *count, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, count int, seed uint64) error {
	if count < 1 {
		return fmt.Errorf("number of authors must be positive, got %d", count)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %s", redact.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := sqlstore.Migrate(ctx, db.DB, dialect); err != nil {
		return err
	}

	authors := sqlstore.NewAuthorStore(db, dialect, log)
	start := time.Now()
	if err := seedAuthors(ctx, db, authors, gofakeit.New(seed), count); err != nil {
		return err
	}

	log.Info("database seeded",
		slog.Int("authors", count),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// seedAuthors inserts count fake authors in a single transaction.
func seedAuthors(ctx context.Context, db *sqlx.DB, authors store.AuthorStore, faker *gofakeit.Faker, count int) error {
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
		txAuthors := authors.WithTx(tx)
		for i := 0; i < count; i++ {
			author, err := domain.NewAuthor(
				faker.Name(),
				fmt.Sprintf("https://i.pravatar.cc/300?u=%s", faker.UUID()),
				time.Now(),
			)
			if err != nil {
				return fmt.Errorf("failed to build author %d: %w", i, err)
			}
			if _, err := txAuthors.Create(ctx, author); err != nil {
				return fmt.Errorf("failed to insert author %d: %w", i, err)
			}
		}
		return nil
	})
}
