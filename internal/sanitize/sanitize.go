// Package sanitize neutralizes markup in text sent back to clients.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// strict removes every tag, drops script and style content and escapes the rest.
var strict = bluemonday.StrictPolicy()

// unescape restores the characters bluemonday escapes in plain text.
// Output is JSON, not HTML: only < and > stay escaped.
var unescape = strings.NewReplacer(
	"&amp;", "&",
	"&#39;", "'",
	"&#34;", `"`,
)

// String returns s with all markup removed. Ampersands and quotes come back
// unchanged so URLs with query strings survive.
func String(s string) string {
	return unescape.Replace(strict.Sanitize(s))
}

// Bookmark sanitizes the free-text fields of b. ID and rating are untouched.
func Bookmark(b domain.Bookmark) domain.Bookmark {
	b.Title = String(b.Title)
	b.URL = String(b.URL)
	b.Description = String(b.Description)
	return b
}
