package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

const bookmarkColumns = "id, title, url, description, rating"

// bookmarkRow mirrors one row of the bookmarks table.
type bookmarkRow struct {
	ID          int64         `db:"id"`
	Title       string        `db:"title"`
	URL         string        `db:"url"`
	Description string        `db:"description"`
	Rating      sql.NullInt16 `db:"rating"`
}

func (r bookmarkRow) toDomain() domain.Bookmark {
	b := domain.Bookmark{
		ID:          r.ID,
		Title:       r.Title,
		URL:         r.URL,
		Description: r.Description,
	}
	if r.Rating.Valid {
		v := int(r.Rating.Int16)
		b.Rating = &v
	}
	return b
}

// BookmarkStore reads and writes the bookmarks table.
// Every method is a single statement; none of them opens a transaction.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// List returns every bookmark ordered by id. The slice is never nil.
func (s *BookmarkStore) List(ctx context.Context) ([]domain.Bookmark, error) {
	var rows []bookmarkRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+bookmarkColumns+" FROM bookmarks ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return lo.Map(rows, func(r bookmarkRow, _ int) domain.Bookmark { return r.toDomain() }), nil
}

// Get returns the bookmark with the given id or domain.ErrNotFound.
func (s *BookmarkStore) Get(ctx context.Context, id int64) (domain.Bookmark, error) {
	var row bookmarkRow
	err := s.db.GetContext(ctx, &row, "SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("get bookmark %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// Insert stores a new bookmark and returns it with its assigned id.
func (s *BookmarkStore) Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	var row bookmarkRow
	err := s.db.GetContext(ctx, &row,
		"INSERT INTO bookmarks (title, url, description, rating) VALUES ($1, $2, $3, $4) RETURNING "+bookmarkColumns,
		nb.Title, nb.URL, nb.Description, nullInt(nb.Rating),
	)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}
	return row.toDomain(), nil
}

// Update writes the set fields of patch and returns the full updated row.
// A nil field keeps the stored value, so rating cannot be cleared here.
func (s *BookmarkStore) Update(ctx context.Context, id int64, patch domain.BookmarkPatch) (domain.Bookmark, error) {
	var row bookmarkRow
	err := s.db.GetContext(ctx, &row,
		`UPDATE bookmarks SET
			title = COALESCE($2, title),
			url = COALESCE($3, url),
			description = COALESCE($4, description),
			rating = COALESCE($5, rating)
		WHERE id = $1
		RETURNING `+bookmarkColumns,
		id, nullString(patch.Title), nullString(patch.URL), nullString(patch.Description), nullInt(patch.Rating),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("update bookmark %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// Delete removes the bookmark. Deleting an absent id is not an error.
func (s *BookmarkStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	return nil
}

// ExistsByURL reports whether a bookmark already points at url.
func (s *BookmarkStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM bookmarks WHERE url = $1)", url); err != nil {
		return false, fmt.Errorf("lookup bookmark url: %w", err)
	}
	return exists, nil
}

// Ping checks that the database answers.
func (s *BookmarkStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
