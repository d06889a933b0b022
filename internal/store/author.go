package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// AuthorStore defines the interface for author data persistence.
type AuthorStore interface {
	// List returns every author, newest first.
	// Returns an empty slice when there are none.
	List(ctx context.Context) ([]*domain.Author, error)

	// GetByID retrieves an author by its unique ID.
	// Returns ErrAuthorNotFound if the author does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)

	// Create inserts a new author and returns the row as stored.
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)

	// Update overwrites the mutable fields of an existing author and returns
	// the row as stored. Returns ErrAuthorNotFound if the author does not exist.
	Update(ctx context.Context, author *domain.Author) (*domain.Author, error)

	// Delete removes an author and, through the foreign key, all of its books.
	// Returns ErrAuthorNotFound if the author does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns an AuthorStore that runs every statement on tx.
	WithTx(tx DBTX) AuthorStore
}
