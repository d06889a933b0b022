package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// BookStore defines the interface for book data persistence.
type BookStore interface {
	// List returns every book, newest first.
	List(ctx context.Context) ([]*domain.Book, error)

	// ListByAuthor returns the books of one author, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Book, error)

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// Create inserts a new book and returns the row as stored.
	// Returns ErrAuthorReference if the author does not exist.
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)

	// Update overwrites the mutable fields of an existing book.
	// Returns ErrBookNotFound if the book does not exist and
	// ErrAuthorReference if the new author does not exist.
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)

	// Delete removes a book.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a BookStore that runs every statement on tx.
	WithTx(tx DBTX) BookStore
}
