package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/sanitize"
	"github.com/MrSnakeDoc/bookmarks/internal/validation"
)

// ListBookmarks returns every stored bookmark.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmarks, err := d.Bookmarks.List(r.Context())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarks)
	}
}

// CreateBookmark validates the body and stores a new bookmark.
// Storage is never called with invalid input.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in validation.BookmarkInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		in = in.Trim()
		if err := validation.Bookmark(r.Context(), in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Insert(r.Context(), in.ToNewBookmark())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark created", logger.Int64("id", b.ID))
		w.Header().Set("Location", "/bookmarks/"+strconv.FormatInt(b.ID, 10))
		writeJSON(w, http.StatusCreated, b)
	}
}

// GetBookmark returns one bookmark with its text fields sanitized.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		if d.Usage != nil {
			if _, err := d.Usage.IncrementUsage(r.Context(), id); err != nil {
				d.Logger.Warn("failed to record bookmark usage", logger.Int64("id", id), logger.Error(err))
			}
		}

		w.Header().Set("Location", r.URL.Path)
		writeJSON(w, http.StatusOK, sanitize.Bookmark(b))
	}
}

// UpdateBookmark applies a partial update and returns the stored result.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		var in validation.BookmarkPatchInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		in = in.Trim()
		if err := validation.BookmarkPatch(r.Context(), in); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Update(r.Context(), id, in.ToPatch())
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		d.Logger.Info("bookmark updated", logger.Int64("id", id))
		writeJSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark removes a bookmark. Deleting an absent id still answers 204.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		if err := d.Bookmarks.Delete(r.Context(), id); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		if d.Usage != nil {
			if err := d.Usage.DeleteUsage(r.Context(), id); err != nil {
				d.Logger.Warn("failed to drop bookmark usage", logger.Int64("id", id), logger.Error(err))
			}
		}

		d.Logger.Info("bookmark deleted", logger.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

type usageResponse struct {
	ID    int64 `json:"id"`
	Count int64 `json:"count"`
}

// BookmarkUsage returns how many times a bookmark was read by id.
func BookmarkUsage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Usage == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "usage tracking disabled"})
			return
		}

		id, err := bookmarkID(r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		if _, err := d.Bookmarks.Get(r.Context(), id); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		count, err := d.Usage.Usage(r.Context(), id)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, usageResponse{ID: id, Count: count})
	}
}
