package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// FakeImageURL returns a random https URL pointing at an image.
func FakeImageURL() string {
	return "https://picsum.photos/seed/" + gofakeit.LetterN(12) + "/400/600"
}

// CreateTestAuthor creates a new valid author for testing.
// It does not save the author to the database.
func CreateTestAuthor(t testing.TB) *domain.Author {
	t.Helper()

	author, err := domain.NewAuthor(gofakeit.Name(), FakeImageURL(), time.Now())
	require.NoError(t, err, "Failed to create test author")
	return author
}

// MustInsertAuthor stores a new random author and returns it as stored.
func MustInsertAuthor(ctx context.Context, t testing.TB, authors store.AuthorStore) *domain.Author {
	t.Helper()

	created, err := authors.Create(ctx, CreateTestAuthor(t))
	require.NoError(t, err, "Failed to insert test author")
	return created
}

// CreateTestBook creates a new valid book of authorID for testing.
// It does not save the book to the database.
func CreateTestBook(t testing.TB, authorID uuid.UUID) *domain.Book {
	t.Helper()

	book, err := domain.NewBook(gofakeit.BookTitle(), FakeImageURL(), authorID, time.Now())
	require.NoError(t, err, "Failed to create test book")
	return book
}

// MustInsertBook stores a new random book of authorID and returns it as stored.
func MustInsertBook(ctx context.Context, t testing.TB, books store.BookStore, authorID uuid.UUID) *domain.Book {
	t.Helper()

	created, err := books.Create(ctx, CreateTestBook(t, authorID))
	require.NoError(t, err, "Failed to insert test book")
	return created
}
