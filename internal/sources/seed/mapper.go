package seed

import (
	"context"

	"github.com/samber/lo"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/validation"
)

// Map trims and validates every entry. Valid entries come back as
// NewBookmarks with duplicate URLs collapsed to their first occurrence.
func Map(ctx context.Context, file File) ([]domain.NewBookmark, []Rejected) {
	var rejected []Rejected
	valid := make([]validation.BookmarkInput, 0, len(file))

	for i, entry := range file {
		entry = entry.Trim()

		if err := validation.Bookmark(ctx, entry); err != nil {
			rejected = append(rejected, Rejected{Index: i, Title: entry.Title, Err: err})
			continue
		}
		valid = append(valid, entry)
	}

	unique := lo.UniqBy(valid, func(in validation.BookmarkInput) string { return in.URL })

	return lo.Map(unique, func(in validation.BookmarkInput, _ int) domain.NewBookmark {
		return in.ToNewBookmark()
	}), rejected
}
