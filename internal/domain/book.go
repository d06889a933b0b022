package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Book.
var (
	ErrEmptyBookID       = fmt.Errorf("%w: book ID cannot be empty", ErrInvalidID)
	ErrEmptyBookAuthorID = fmt.Errorf("%w: book author ID cannot be empty", ErrInvalidID)
	ErrEmptyBookName     = fmt.Errorf("%w: book name cannot be empty", ErrEmptyContent)
	ErrEmptyBookCoverURL = fmt.Errorf("%w: book cover URL cannot be empty", ErrEmptyContent)
)

// Book is a title written by exactly one Author. Deleting the author
// deletes the book.
type Book struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CoverURL  string    `db:"cover_url"`
	AuthorID  uuid.UUID `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewBook creates a Book with a fresh ID owned by authorID.
func NewBook(name, coverURL string, authorID uuid.UUID, now time.Time) (*Book, error) {
	ts := Timestamp(now)
	book := &Book{
		ID:        uuid.New(),
		Name:      name,
		CoverURL:  coverURL,
		AuthorID:  authorID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.AuthorID == uuid.Nil {
		return ErrEmptyBookAuthorID
	}

	if b.Name == "" {
		return ErrEmptyBookName
	}

	if b.CoverURL == "" {
		return ErrEmptyBookCoverURL
	}

	return nil
}

// BookPatch holds the fields of a partial book update.
type BookPatch struct {
	Name     *string
	CoverURL *string
	AuthorID *uuid.UUID
}

// IsEmpty reports whether the patch supplies no field at all.
func (p BookPatch) IsEmpty() bool {
	return p.Name == nil && p.CoverURL == nil && p.AuthorID == nil
}

// Apply merges the supplied fields into the book and refreshes UpdatedAt.
// The book is left unchanged if the result would be invalid.
func (b *Book) Apply(p BookPatch, now time.Time) error {
	next := *b
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.CoverURL != nil {
		next.CoverURL = *p.CoverURL
	}
	if p.AuthorID != nil {
		next.AuthorID = *p.AuthorID
	}
	next.UpdatedAt = touch(b.UpdatedAt, now)

	if err := next.Validate(); err != nil {
		return err
	}

	*b = next
	return nil
}
