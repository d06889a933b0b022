package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/store"
	"github.com/phrazzld/bookshelf-api/internal/testdb"
)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

type testEnv struct {
	handler http.Handler
	authors store.AuthorStore
	books   store.BookStore
}

// newTestEnv builds a router over a private migrated database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, dialect := testdb.Open(t)
	authors := sqlstore.NewAuthorStore(db, dialect, nil)
	books := sqlstore.NewBookStore(db, dialect, nil)

	return &testEnv{
		handler: newRouter(authors, books),
		authors: authors,
		books:   books,
	}
}

func newRouter(authors store.AuthorStore, books store.BookStore) http.Handler {
	clock := newStepClock()
	r := chi.NewRouter()
	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.MethodNotAllowedHandler)
	api.Mount(r, api.Routes(
		api.NewAuthorHandler(authors, nil).WithClock(clock.Now),
		api.NewBookHandler(books, authors, nil).WithClock(clock.Now),
	), nil)
	return r
}

// fakeAuthorStore is a function-field fake. Unset functions panic.
type fakeAuthorStore struct {
	ListFn    func(ctx context.Context) ([]*domain.Author, error)
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	CreateFn  func(ctx context.Context, a *domain.Author) (*domain.Author, error)
	UpdateFn  func(ctx context.Context, a *domain.Author) (*domain.Author, error)
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeAuthorStore) List(ctx context.Context) ([]*domain.Author, error) { return f.ListFn(ctx) }
func (f *fakeAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeAuthorStore) Create(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	return f.CreateFn(ctx, a)
}
func (f *fakeAuthorStore) Update(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	return f.UpdateFn(ctx, a)
}
func (f *fakeAuthorStore) Delete(ctx context.Context, id uuid.UUID) error { return f.DeleteFn(ctx, id) }
func (f *fakeAuthorStore) WithTx(store.DBTX) store.AuthorStore { return f }

type fakeBookStore struct {
	ListFn         func(ctx context.Context) ([]*domain.Book, error)
	ListByAuthorFn func(ctx context.Context, authorID uuid.UUID) ([]*domain.Book, error)
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	CreateFn       func(ctx context.Context, b *domain.Book) (*domain.Book, error)
	UpdateFn       func(ctx context.Context, b *domain.Book) (*domain.Book, error)
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeBookStore) List(ctx context.Context) ([]*domain.Book, error) { return f.ListFn(ctx) }
func (f *fakeBookStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Book, error) {
	return f.ListByAuthorFn(ctx, authorID)
}
func (f *fakeBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeBookStore) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	return f.CreateFn(ctx, b)
}
func (f *fakeBookStore) Update(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	return f.UpdateFn(ctx, b)
}
func (f *fakeBookStore) Delete(ctx context.Context, id uuid.UUID) error { return f.DeleteFn(ctx, id) }
func (f *fakeBookStore) WithTx(store.DBTX) store.BookStore { return f }

var errDatabaseDown = errors.New("dial tcp: connect postgres://app:secret@db:5432: connection refused")

func jsonString(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
