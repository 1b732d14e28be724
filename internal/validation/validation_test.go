package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestBookmark(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         BookmarkInput
		wantFields []string
	}{
		{
			name: "valid minimal",
			in:   BookmarkInput{Title: "Go", URL: "https://go.dev"},
		},
		{
			name: "valid full",
			in:   BookmarkInput{Title: "Go", URL: "http://go.dev/doc", Description: "docs", Rating: ptr(5)},
		},
		{
			name:       "missing title and url",
			in:         BookmarkInput{},
			wantFields: []string{"title", "url"},
		},
		{
			name:       "relative url",
			in:         BookmarkInput{Title: "Go", URL: "/doc"},
			wantFields: []string{"url"},
		},
		{
			name:       "rating out of range",
			in:         BookmarkInput{Title: "Go", URL: "https://go.dev", Rating: ptr(6)},
			wantFields: []string{"rating"},
		},
		{
			name:       "rating zero",
			in:         BookmarkInput{Title: "Go", URL: "https://go.dev", Rating: ptr(0)},
			wantFields: []string{"rating"},
		},
		{
			name:       "title too long",
			in:         BookmarkInput{Title: strings.Repeat("a", 256), URL: "https://go.dev"},
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Bookmark(ctx, tt.in)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			got := fields(t, err)
			require.Len(t, got, len(tt.wantFields))
			for _, f := range tt.wantFields {
				require.Contains(t, got, f)
			}
		})
	}
}

func TestBookmarkReasons(t *testing.T) {
	got := fields(t, Bookmark(context.Background(), BookmarkInput{URL: "nope"}))
	require.Equal(t, "is required", got["title"])
	require.Equal(t, "must be an absolute http(s) URL", got["url"])
}

func TestBookmarkTrim(t *testing.T) {
	in := BookmarkInput{Title: "   ", URL: " https://go.dev ", Description: "\tdocs\n"}.Trim()
	require.Equal(t, "https://go.dev", in.URL)
	require.Equal(t, "docs", in.Description)

	got := fields(t, Bookmark(context.Background(), in))
	require.Equal(t, map[string]string{"title": "is required"}, got)
}

func TestBookmarkPatch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch", func(t *testing.T) {
		got := fields(t, BookmarkPatch(ctx, BookmarkPatchInput{}))
		require.Contains(t, got, "body")
	})

	t.Run("single field", func(t *testing.T) {
		require.NoError(t, BookmarkPatch(ctx, BookmarkPatchInput{Description: ptr("")}))
	})

	t.Run("empty title rejected", func(t *testing.T) {
		got := fields(t, BookmarkPatch(ctx, BookmarkPatchInput{Title: ptr("")}))
		require.Equal(t, "must not be empty", got["title"])
	})

	t.Run("blank title rejected after trim", func(t *testing.T) {
		in := BookmarkPatchInput{Title: ptr("   "), Description: ptr("  docs ")}.Trim()
		got := fields(t, BookmarkPatch(ctx, in))
		require.Equal(t, "must not be empty", got["title"])
		require.Equal(t, "docs", *in.Description)
	})

	t.Run("bad url and rating", func(t *testing.T) {
		got := fields(t, BookmarkPatch(ctx, BookmarkPatchInput{URL: ptr("ftp://x"), Rating: ptr(9)}))
		require.Contains(t, got, "url")
		require.Equal(t, "must be at most 5", got["rating"])
	})
}

func TestConversions(t *testing.T) {
	nb := BookmarkInput{Title: "t", URL: "https://x.com", Rating: ptr(2)}.ToNewBookmark()
	require.Equal(t, "t", nb.Title)
	require.Equal(t, 2, *nb.Rating)

	p := BookmarkPatchInput{URL: ptr("https://y.com")}.ToPatch()
	require.Nil(t, p.Title)
	require.Equal(t, "https://y.com", *p.URL)
}
