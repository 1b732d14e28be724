package seed

import (
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/validation"
)

// File is the root of a seed file: a plain list of bookmarks.
//
//	- title: Go
//	  url: https://go.dev
//	  description: The Go programming language
//	  rating: 5
type File []validation.BookmarkInput

// Rejected is a seed entry that failed validation.
type Rejected struct {
	Index int    // position in the file, 0-based
	Title string // as written in the file
	Err   error
}

// Report summarizes the last import run.
type Report struct {
	File     string    `json:"file"`
	LastRun  time.Time `json:"last_run"`
	Imported int       `json:"imported"`
	Existing int       `json:"existing"`
	Invalid  int       `json:"invalid"`
	Failed   int       `json:"failed"`
	Error    string    `json:"error,omitempty"`
}
