package domain

// Bookmark is a titled reference to a URL.
// PostgreSQL is the only owner of bookmark state; the service never keeps
// copies between requests.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by storage on insert and never changes.
	ID int64 `json:"id" db:"id"`

	// ─────────────────────────────
	// Content (mutable through update)
	// ─────────────────────────────

	// Title is a human label. Required on creation.
	Title string `json:"title" db:"title"`

	// URL is the bookmarked address.
	// Example: https://go.dev/
	URL string `json:"url" db:"url"`

	// Description is optional free text, empty when unset.
	Description string `json:"description" db:"description"`

	// Rating is an optional 1..5 score, nil when unset.
	Rating *int `json:"rating" db:"rating"`
}

// NewBookmark carries the fields of a bookmark that does not exist yet.
type NewBookmark struct {
	Title       string
	URL         string
	Description string
	Rating      *int
}

// BookmarkPatch lists the fields an update may change.
// A nil field leaves the stored value untouched.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Rating      *int
}

// IsEmpty reports whether the patch changes nothing.
func (p BookmarkPatch) IsEmpty() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil && p.Rating == nil
}
