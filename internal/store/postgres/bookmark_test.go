package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

var columns = []string{"id", "title", "url", "description", "rating"}

func newStoreWithMock(t *testing.T) (*BookmarkStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBookmarkStore(sqlx.NewDb(db, "sqlmock")), mock
}

func ptr[T any](v T) *T { return &v }

func TestList(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT id, title, url, description, rating FROM bookmarks ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Go", "https://go.dev", "", int64(5)).
			AddRow(int64(2), "Chi", "https://go-chi.io", "router", nil))

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.NotNil(t, got[0].Rating)
	require.Equal(t, 5, *got[0].Rating)
	require.Nil(t, got[1].Rating)
	require.Equal(t, "router", got[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmptyIsNotNil(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM bookmarks ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM bookmarks WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "t", "https://x.com", "d", int64(3)))

		got, err := store.Get(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, "t", got.Title)
		require.Equal(t, 3, *got.Rating)
	})

	t.Run("absent row is ErrNotFound", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM bookmarks WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := store.Get(context.Background(), 9)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT .* FROM bookmarks WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnError(boom)

		_, err := store.Get(context.Background(), 1)
		require.ErrorIs(t, err, boom)
		require.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInsert(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookmarks (title, url, description, rating) VALUES ($1, $2, $3, $4) RETURNING id, title, url, description, rating`)).
		WithArgs("Go", "https://go.dev", "", nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(42), "Go", "https://go.dev", "", nil))

	got, err := store.Insert(context.Background(), domain.NewBookmark{Title: "Go", URL: "https://go.dev"})
	require.NoError(t, err)
	require.Equal(t, int64(42), got.ID)
	require.Nil(t, got.Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFailure(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`INSERT INTO bookmarks`).
		WithArgs("Go", "https://go.dev", "", int64(4)).
		WillReturnError(errors.New("check constraint"))

	_, err := store.Insert(context.Background(), domain.NewBookmark{Title: "Go", URL: "https://go.dev", Rating: ptr(4)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert bookmark")
}

func TestUpdate(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(`UPDATE bookmarks SET .*COALESCE.* WHERE id = \$1\s+RETURNING id, title, url, description, rating`).
			WithArgs(int64(3), "new title", nil, nil, int64(2)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "new title", "https://x.com", "kept", int64(2)))

		got, err := store.Update(context.Background(), 3, domain.BookmarkPatch{Title: ptr("new title"), Rating: ptr(2)})
		require.NoError(t, err)
		require.Equal(t, "new title", got.Title)
		require.Equal(t, "kept", got.Description)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is ErrNotFound", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectQuery(`UPDATE bookmarks SET`).
			WithArgs(int64(99), nil, "https://y.com", nil, nil).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := store.Update(context.Background(), 99, domain.BookmarkPatch{URL: ptr("https://y.com")})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(`DELETE FROM bookmarks WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Delete(context.Background(), 5))
	})

	t.Run("absent row is not an error", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(`DELETE FROM bookmarks WHERE id = \$1`).
			WithArgs(int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, store.Delete(context.Background(), 6))
	})

	t.Run("storage failure", func(t *testing.T) {
		store, mock := newStoreWithMock(t)
		mock.ExpectExec(`DELETE FROM bookmarks`).
			WithArgs(int64(6)).
			WillReturnError(errors.New("boom"))

		require.Error(t, store.Delete(context.Background(), 6))
	})
}

func TestExistsByURL(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM bookmarks WHERE url = \$1\)`).
		WithArgs("https://go.dev").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.ExistsByURL(context.Background(), "https://go.dev")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	store := NewBookmarkStore(sqlx.NewDb(db, "sqlmock"))
	require.Error(t, store.Ping(context.Background()))
}
