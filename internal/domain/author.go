package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Author.
var (
	ErrEmptyAuthorID        = fmt.Errorf("%w: author ID cannot be empty", ErrInvalidID)
	ErrEmptyAuthorName      = fmt.Errorf("%w: author name cannot be empty", ErrEmptyContent)
	ErrEmptyAuthorAvatarURL = fmt.Errorf("%w: author avatar URL cannot be empty", ErrEmptyContent)
)

// Author is a person who wrote one or more books.
type Author struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	AvatarURL string    `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewAuthor creates an Author with a fresh ID. CreatedAt and UpdatedAt are
// both set to now.
func NewAuthor(name, avatarURL string, now time.Time) (*Author, error) {
	ts := Timestamp(now)
	author := &Author{
		ID:        uuid.New(),
		Name:      name,
		AvatarURL: avatarURL,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := author.Validate(); err != nil {
		return nil, err
	}

	return author, nil
}

// Validate checks if the Author has valid data.
func (a *Author) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAuthorID
	}

	if a.Name == "" {
		return ErrEmptyAuthorName
	}

	if a.AvatarURL == "" {
		return ErrEmptyAuthorAvatarURL
	}

	return nil
}

// AuthorPatch holds the fields of a partial author update. Nil fields are
// left untouched.
type AuthorPatch struct {
	Name      *string
	AvatarURL *string
}

// IsEmpty reports whether the patch supplies no field at all.
func (p AuthorPatch) IsEmpty() bool {
	return p.Name == nil && p.AvatarURL == nil
}

// Apply merges the supplied fields into the author and refreshes UpdatedAt.
func (a *Author) Apply(p AuthorPatch, now time.Time) error {
	next := *a
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.AvatarURL != nil {
		next.AvatarURL = *p.AvatarURL
	}
	next.UpdatedAt = touch(a.UpdatedAt, now)

	if err := next.Validate(); err != nil {
		return err
	}

	*a = next
	return nil
}
