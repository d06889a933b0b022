package sqlstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/phrazzld/bookshelf-api/internal/domain"
)

// timestamp scans time values from drivers that return either time.Time or
// text. SQLite only converts to time.Time when it knows the declared column
// type, which RETURNING clauses do not always preserve.
type timestamp time.Time

// Scan implements sql.Scanner.
func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v)
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		return fmt.Errorf("cannot scan NULL into timestamp")
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *timestamp) parse(s string) error {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as timestamp", s)
}

func (t timestamp) toTime() time.Time {
	return domain.Timestamp(time.Time(t))
}

var authorColumns = []string{"id", "name", "avatar_url", "created_at", "updated_at"}

type authorRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	AvatarURL string    `db:"avatar_url"`
	CreatedAt timestamp `db:"created_at"`
	UpdatedAt timestamp `db:"updated_at"`
}

func (r authorRow) toDomain() *domain.Author {
	return &domain.Author{
		ID:        r.ID,
		Name:      r.Name,
		AvatarURL: r.AvatarURL,
		CreatedAt: r.CreatedAt.toTime(),
		UpdatedAt: r.UpdatedAt.toTime(),
	}
}

var bookColumns = []string{"id", "name", "cover_url", "author_id", "created_at", "updated_at"}

type bookRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CoverURL  string    `db:"cover_url"`
	AuthorID  uuid.UUID `db:"author_id"`
	CreatedAt timestamp `db:"created_at"`
	UpdatedAt timestamp `db:"updated_at"`
}

func (r bookRow) toDomain() *domain.Book {
	return &domain.Book{
		ID:        r.ID,
		Name:      r.Name,
		CoverURL:  r.CoverURL,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt.toTime(),
		UpdatedAt: r.UpdatedAt.toTime(),
	}
}
