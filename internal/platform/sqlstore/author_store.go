package sqlstore

import (
	"context"
	"errors"
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

// AuthorStore implements store.AuthorStore on top of a SQL database.
type AuthorStore struct {
	db      store.DBTX
	dialect Dialect
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// NewAuthorStore creates an AuthorStore. The connection or transaction is
// owned by the caller. If logger is nil, slog.Default() is used.
func NewAuthorStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *AuthorStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AuthorStore{
		db:      db,
		dialect: dialect,
		builder: dialect.Builder(),
		logger:  logger.With(slog.String("component", "author_store")),
	}
}

// Ensure AuthorStore implements store.AuthorStore interface
var _ store.AuthorStore = (*AuthorStore)(nil)

// WithTx implements store.AuthorStore.WithTx
func (s *AuthorStore) WithTx(tx store.DBTX) store.AuthorStore {
	return &AuthorStore{
		db:      tx,
		dialect: s.dialect,
		builder: s.builder,
		logger:  s.logger,
	}
}

// List implements store.AuthorStore.List
func (s *AuthorStore) List(ctx context.Context) ([]*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.builder.
		Select(authorColumns...).
		From("authors").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []authorRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		log.Error("failed to list authors", slog.String("error", err.Error()))
		return nil, store.NewStoreError("author", "list", MapError(err))
	}

	authors := make([]*domain.Author, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, row.toDomain())
	}

	log.Debug("authors listed", slog.Int("count", len(authors)))
	return authors, nil
}

// GetByID implements store.AuthorStore.GetByID
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *AuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.builder.
		Select(authorColumns...).
		From("authors").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row authorRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		if store.IsNotFoundError(MapError(err)) {
			log.Debug("author not found", slog.String("author_id", id.String()))
			return nil, store.ErrAuthorNotFound
		}
		log.Error("failed to get author by ID",
			slog.String("error", err.Error()),
			slog.String("author_id", id.String()))
		return nil, store.NewStoreError("author", "get", MapError(err))
	}

	return row.toDomain(), nil
}

// Create implements store.AuthorStore.Create
func (s *AuthorStore) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := author.Validate(); err != nil {
		log.Warn("author validation failed during create",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := s.builder.
		Insert("authors").
		Columns(authorColumns...).
		Values(author.ID.String(), author.Name, author.AvatarURL, author.CreatedAt, author.UpdatedAt).
		Suffix("RETURNING " + strings.Join(authorColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row authorRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		log.Error("failed to create author",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return nil, store.NewStoreError("author", "create", MapError(err))
	}

	log.Info("author created", slog.String("author_id", row.ID.String()))
	return row.toDomain(), nil
}

// Update implements store.AuthorStore.Update
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *AuthorStore) Update(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := author.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query, args, err := s.builder.
		Update("authors").
		Set("name", author.Name).
		Set("avatar_url", author.AvatarURL).
		Set("updated_at", author.UpdatedAt).
		Where(sq.Eq{"id": author.ID.String()}).
		Suffix("RETURNING " + strings.Join(authorColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row authorRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrAuthorNotFound
		}
		log.Error("failed to update author",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return nil, store.NewStoreError("author", "update", mapped)
	}

	log.Info("author updated", slog.String("author_id", row.ID.String()))
	return row.toDomain(), nil
}

// Delete implements store.AuthorStore.Delete
// Books of the author are removed by the ON DELETE CASCADE foreign key.
// Returns store.ErrAuthorNotFound if the author does not exist.
func (s *AuthorStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.builder.
		Delete("authors").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete author",
			slog.String("error", err.Error()),
			slog.String("author_id", id.String()))
		return store.NewStoreError("author", "delete", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrAuthorNotFound); err != nil {
		if errors.Is(err, store.ErrAuthorNotFound) {
			log.Debug("author not found for deletion", slog.String("author_id", id.String()))
		}
		return err
	}

	log.Info("author deleted", slog.String("author_id", id.String()))
	return nil
}
