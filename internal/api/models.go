package api

import (
	"time"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// TimeFormat renders timestamps as ISO-8601 with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Request schemas. Field order fixes the order of reported violations.
var (
	ParamsSchema = validation.Schema("Params",
		validation.String("id", validation.UUID()).Describe("Resource identifier"),
	)

	AuthorInputSchema = validation.Schema("AuthorInput",
		validation.String("avatar_url", validation.URL()).Describe("Avatar image URL"),
		validation.String("name", validation.MinLength(1)).Describe("Author name"),
	)

	AuthorPatchSchema = AuthorInputSchema.Partial("AuthorPatch", `Send "name" or "avatar_url"`)

	BookInputSchema = validation.Schema("BookInput",
		validation.String("cover_url", validation.URL()).Describe("Cover image URL"),
		validation.String("name", validation.MinLength(1)).Describe("Book title"),
		validation.String("author_id", validation.UUID()).Describe("Identifier of an existing author"),
	)

	BookPatchSchema = BookInputSchema.Partial("BookPatch", `Send "cover_url", "name" or "author_id"`)
)

// Response schemas. Every success payload is checked against them before it
// is written.
var (
	AuthorSchema = validation.Schema("Author",
		validation.String("id", validation.UUID()),
		validation.String("avatar_url", validation.URL()),
		validation.String("name"),
		validation.String("created_at", validation.DateTime()),
		validation.String("updated_at", validation.DateTime()),
	)

	BookSchema = validation.Schema("Book",
		validation.String("id", validation.UUID()),
		validation.String("cover_url", validation.URL()),
		validation.String("name"),
		validation.String("author_id", validation.UUID()),
		validation.String("created_at", validation.DateTime()),
		validation.String("updated_at", validation.DateTime()),
	)
)

// AuthorResponse is the wire representation of an author.
type AuthorResponse struct {
	ID        string `json:"id"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// BookResponse is the wire representation of a book.
type BookResponse struct {
	ID        string `json:"id"`
	CoverURL  string `json:"cover_url"`
	Name      string `json:"name"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type authorEnvelope struct {
	Author AuthorResponse `json:"author"`
}

type authorsEnvelope struct {
	Authors []AuthorResponse `json:"authors"`
}

type bookEnvelope struct {
	Book BookResponse `json:"book"`
}

type booksEnvelope struct {
	Books []BookResponse `json:"books"`
}

func formatTime(t time.Time) string {
	return domain.Timestamp(t).Format(TimeFormat)
}

func authorToResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID.String(),
		AvatarURL: a.AvatarURL,
		Name:      a.Name,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}

func (a AuthorResponse) values() validation.Values {
	return validation.Values{
		"id":         a.ID,
		"avatar_url": a.AvatarURL,
		"name":       a.Name,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}

func bookToResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:        b.ID.String(),
		CoverURL:  b.CoverURL,
		Name:      b.Name,
		AuthorID:  b.AuthorID.String(),
		CreatedAt: formatTime(b.CreatedAt),
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}

func (b BookResponse) values() validation.Values {
	return validation.Values{
		"id":         b.ID,
		"cover_url":  b.CoverURL,
		"name":       b.Name,
		"author_id":  b.AuthorID,
		"created_at": b.CreatedAt,
		"updated_at": b.UpdatedAt,
	}
}
