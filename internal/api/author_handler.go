package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// Not-found messages shared by the author and book handlers.
const (
	authorNotFoundMessage = "Author not found."
	bookNotFoundMessage   = "Book not found."
)

// AuthorHandler handles author-related HTTP requests
type AuthorHandler struct {
	authors store.AuthorStore
	now     func() time.Time
	logger  *slog.Logger
}

// NewAuthorHandler creates a new AuthorHandler
func NewAuthorHandler(authors store.AuthorStore, logger *slog.Logger) *AuthorHandler {
	if authors == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authors store cannot be nil for AuthorHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthorHandler{
		authors: authors,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "author_handler")),
	}
}

// WithClock returns a copy of h that reads the current time from now.
func (h *AuthorHandler) WithClock(now func() time.Time) *AuthorHandler {
	clone := *h
	clone.now = now
	return &clone
}

// List handles GET /authors
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) error {
	authors, err := h.authors.List(r.Context())
	if err != nil {
		return err
	}

	resp := authorsEnvelope{Authors: make([]AuthorResponse, 0, len(authors))}
	for _, a := range authors {
		item := authorToResponse(a)
		if err := checkResponse(AuthorSchema, item.values()); err != nil {
			return err
		}
		resp.Authors = append(resp.Authors, item)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
	return nil
}

// Get handles GET /authors/{id}
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	author, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		return authorError(err)
	}

	return h.respond(w, r, http.StatusOK, author)
}

// Create handles POST /authors
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) error {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	values, err := decodeBody(r, AuthorInputSchema)
	if err != nil {
		return err
	}

	author, err := domain.NewAuthor(values["name"], values["avatar_url"], h.now())
	if err != nil {
		return err
	}

	created, err := h.authors.Create(r.Context(), author)
	if err != nil {
		return err
	}

	log.Debug("author created", slog.String("author_id", created.ID.String()))
	return h.respond(w, r, http.StatusCreated, created)
}

// Update handles PATCH /authors/{id}
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	values, err := decodeBody(r, AuthorPatchSchema)
	if err != nil {
		return err
	}

	author, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		return authorError(err)
	}

	patch := domain.AuthorPatch{
		Name:      values.Ptr("name"),
		AvatarURL: values.Ptr("avatar_url"),
	}
	if err := author.Apply(patch, h.now()); err != nil {
		return err
	}

	updated, err := h.authors.Update(r.Context(), author)
	if err != nil {
		return authorError(err)
	}

	return h.respond(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /authors/{id}. The author's books are removed with it.
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.authors.Delete(r.Context(), id); err != nil {
		return authorError(err)
	}

	shared.RespondNoContent(w)
	return nil
}

func (h *AuthorHandler) respond(w http.ResponseWriter, r *http.Request, status int, a *domain.Author) error {
	item := authorToResponse(a)
	if err := checkResponse(AuthorSchema, item.values()); err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, status, authorEnvelope{Author: item})
	return nil
}

// authorError turns a missing author into NotFoundError and passes every
// other error through unchanged.
func authorError(err error) error {
	if errors.Is(err, store.ErrAuthorNotFound) || errors.Is(err, store.ErrAuthorReference) {
		return apperr.NotFound(authorNotFoundMessage)
	}
	return err
}
