package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// BookHandler handles book-related HTTP requests
type BookHandler struct {
	books   store.BookStore
	authors store.AuthorStore
	now     func() time.Time
	logger  *slog.Logger
}

// NewBookHandler creates a new BookHandler. The author store is used to
// check that referenced authors exist.
func NewBookHandler(books store.BookStore, authors store.AuthorStore, logger *slog.Logger) *BookHandler {
	if books == nil || authors == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("book and author stores cannot be nil for BookHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BookHandler{
		books:   books,
		authors: authors,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "book_handler")),
	}
}

// WithClock returns a copy of h that reads the current time from now.
func (h *BookHandler) WithClock(now func() time.Time) *BookHandler {
	clone := *h
	clone.now = now
	return &clone
}

// List handles GET /books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) error {
	books, err := h.books.List(r.Context())
	if err != nil {
		return err
	}

	resp := booksEnvelope{Books: make([]BookResponse, 0, len(books))}
	for _, b := range books {
		item := bookToResponse(b)
		if err := checkResponse(BookSchema, item.values()); err != nil {
			return err
		}
		resp.Books = append(resp.Books, item)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
	return nil
}

// Get handles GET /books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		return bookError(err)
	}

	return h.respond(w, r, http.StatusOK, book)
}

// Create handles POST /books. The referenced author must exist.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) error {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	values, err := decodeBody(r, BookInputSchema)
	if err != nil {
		return err
	}

	authorID, err := optionalUUID(values, "author_id")
	if err != nil {
		return err
	}
	if err := h.requireAuthor(r, *authorID); err != nil {
		return err
	}

	book, err := domain.NewBook(values["name"], values["cover_url"], *authorID, h.now())
	if err != nil {
		return err
	}

	created, err := h.books.Create(r.Context(), book)
	if err != nil {
		return bookError(err)
	}

	log.Debug("book created",
		slog.String("book_id", created.ID.String()),
		slog.String("author_id", created.AuthorID.String()))
	return h.respond(w, r, http.StatusCreated, created)
}

// Update handles PATCH /books/{id}. A supplied author_id must reference an
// existing author.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	values, err := decodeBody(r, BookPatchSchema)
	if err != nil {
		return err
	}

	authorID, err := optionalUUID(values, "author_id")
	if err != nil {
		return err
	}

	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		return bookError(err)
	}

	if authorID != nil {
		if err := h.requireAuthor(r, *authorID); err != nil {
			return err
		}
	}

	patch := domain.BookPatch{
		Name:     values.Ptr("name"),
		CoverURL: values.Ptr("cover_url"),
		AuthorID: authorID,
	}
	if err := book.Apply(patch, h.now()); err != nil {
		return err
	}

	updated, err := h.books.Update(r.Context(), book)
	if err != nil {
		return bookError(err)
	}

	return h.respond(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		return bookError(err)
	}

	shared.RespondNoContent(w)
	return nil
}

func (h *BookHandler) requireAuthor(r *http.Request, id uuid.UUID) error {
	if _, err := h.authors.GetByID(r.Context(), id); err != nil {
		return authorError(err)
	}
	return nil
}

func (h *BookHandler) respond(w http.ResponseWriter, r *http.Request, status int, b *domain.Book) error {
	item := bookToResponse(b)
	if err := checkResponse(BookSchema, item.values()); err != nil {
		return err
	}

	shared.RespondWithJSON(w, r, status, bookEnvelope{Book: item})
	return nil
}

// bookError maps store errors of book operations. A foreign key violation
// means the author vanished after it was checked.
func bookError(err error) error {
	switch {
	case errors.Is(err, store.ErrBookNotFound):
		return apperr.NotFound(bookNotFoundMessage)
	case errors.Is(err, store.ErrAuthorReference):
		return apperr.NotFound(authorNotFoundMessage)
	default:
		return err
	}
}
