package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/bookshelf-api/internal/domain"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/store"
)

// BookStore implements store.BookStore on top of a SQL database.
type BookStore struct {
	db      store.DBTX
	dialect Dialect
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// NewBookStore creates a BookStore. If logger is nil, slog.Default() is used.
func NewBookStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *BookStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &BookStore{
		db:      db,
		dialect: dialect,
		builder: dialect.Builder(),
		logger:  logger.With(slog.String("component", "book_store")),
	}
}

// Ensure BookStore implements store.BookStore interface
var _ store.BookStore = (*BookStore)(nil)

// WithTx implements store.BookStore.WithTx
func (s *BookStore) WithTx(tx store.DBTX) store.BookStore {
	return &BookStore{
		db:      tx,
		dialect: s.dialect,
		builder: s.builder,
		logger:  s.logger,
	}
}

// List implements store.BookStore.List
func (s *BookStore) List(ctx context.Context) ([]*domain.Book, error) {
	return s.list(ctx, s.builder.Select(bookColumns...).From("books"))
}

// ListByAuthor implements store.BookStore.ListByAuthor
func (s *BookStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Book, error) {
	return s.list(ctx, s.builder.
		Select(bookColumns...).
		From("books").
		Where(sq.Eq{"author_id": authorID.String()}))
}

func (s *BookStore) list(ctx context.Context, q sq.SelectBuilder) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := q.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []bookRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, store.NewStoreError("book", "list", MapError(err))
	}

	books := make([]*domain.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toDomain())
	}
	return books, nil
}

// GetByID implements store.BookStore.GetByID
// Returns store.ErrBookNotFound if the book does not exist.
func (s *BookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.builder.
		Select(bookColumns...).
		From("books").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row bookRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			log.Debug("book not found", slog.String("book_id", id.String()))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, store.NewStoreError("book", "get", mapped)
	}

	return row.toDomain(), nil
}

// Create implements store.BookStore.Create
// Returns store.ErrAuthorReference if the author does not exist.
func (s *BookStore) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := s.builder.
		Insert("books").
		Columns(bookColumns...).
		Values(book.ID.String(), book.Name, book.CoverURL, book.AuthorID.String(), book.CreatedAt, book.UpdatedAt).
		Suffix("RETURNING " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row bookRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during book creation",
				slog.String("book_id", book.ID.String()),
				slog.String("author_id", book.AuthorID.String()))
			return nil, fmt.Errorf("%w: author with ID %s not found", store.ErrAuthorReference, book.AuthorID)
		}
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return nil, store.NewStoreError("book", "create", MapError(err))
	}

	log.Info("book created",
		slog.String("book_id", row.ID.String()),
		slog.String("author_id", row.AuthorID.String()))
	return row.toDomain(), nil
}

// Update implements store.BookStore.Update
func (s *BookStore) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := s.builder.
		Update("books").
		Set("name", book.Name).
		Set("cover_url", book.CoverURL).
		Set("author_id", book.AuthorID.String()).
		Set("updated_at", book.UpdatedAt).
		Where(sq.Eq{"id": book.ID.String()}).
		Suffix("RETURNING " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row bookRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: author with ID %s not found", store.ErrAuthorReference, book.AuthorID)
		}
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return nil, store.NewStoreError("book", "update", mapped)
	}

	log.Info("book updated", slog.String("book_id", row.ID.String()))
	return row.toDomain(), nil
}

// Delete implements store.BookStore.Delete
// Returns store.ErrBookNotFound if the book does not exist.
func (s *BookStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.builder.
		Delete("books").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return store.NewStoreError("book", "delete", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		return err
	}

	log.Info("book deleted", slog.String("book_id", id.String()))
	return nil
}
