package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthor(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.FixedZone("BRT", -3*60*60))

	author, err := NewAuthor("Machado de Assis", "https://example.com/machado.png", now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, author.ID)
	assert.Equal(t, "Machado de Assis", author.Name)
	assert.Equal(t, "https://example.com/machado.png", author.AvatarURL)
	assert.Equal(t, time.UTC, author.CreatedAt.Location())
	assert.Equal(t, 123000000, author.CreatedAt.Nanosecond())
	assert.True(t, author.CreatedAt.Equal(author.UpdatedAt))
}

func TestNewAuthor_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewAuthor("", "https://example.com/a.png", time.Now())
	assert.ErrorIs(t, err, ErrEmptyAuthorName)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewAuthor("Clarice", "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyAuthorAvatarURL)
}

func TestAuthorValidate(t *testing.T) {
	t.Parallel()

	author := Author{ID: uuid.Nil, Name: "x", AvatarURL: "https://example.com"}
	err := author.Validate()
	assert.True(t, errors.Is(err, ErrInvalidID))
}

func TestAuthorApply(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	author, err := NewAuthor("Original", "https://example.com/a.png", created)
	require.NoError(t, err)

	t.Run("merges supplied fields only", func(t *testing.T) {
		a := *author
		name := "Renamed"
		require.NoError(t, a.Apply(AuthorPatch{Name: &name}, created.Add(time.Hour)))

		assert.Equal(t, "Renamed", a.Name)
		assert.Equal(t, author.AvatarURL, a.AvatarURL)
		assert.Equal(t, author.ID, a.ID)
		assert.True(t, a.CreatedAt.Equal(author.CreatedAt))
		assert.True(t, a.UpdatedAt.Equal(created.Add(time.Hour)))
	})

	t.Run("never moves updated_at backwards", func(t *testing.T) {
		a := *author
		url := "https://example.com/b.png"
		require.NoError(t, a.Apply(AuthorPatch{AvatarURL: &url}, created.Add(-time.Hour)))

		assert.False(t, a.UpdatedAt.Before(a.CreatedAt))
		assert.True(t, a.UpdatedAt.Equal(author.UpdatedAt))
	})

	t.Run("leaves author unchanged on invalid result", func(t *testing.T) {
		a := *author
		empty := ""
		err := a.Apply(AuthorPatch{Name: &empty}, created.Add(time.Hour))

		assert.ErrorIs(t, err, ErrEmptyAuthorName)
		assert.Equal(t, *author, a)
	})
}

func TestAuthorPatchIsEmpty(t *testing.T) {
	t.Parallel()

	name := "n"
	assert.True(t, AuthorPatch{}.IsEmpty())
	assert.False(t, AuthorPatch{Name: &name}.IsEmpty())
	assert.False(t, AuthorPatch{AvatarURL: &name}.IsEmpty())
}
