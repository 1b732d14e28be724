package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/bookmarks", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.BearerAuth(d.APIToken, d.Logger))
		if d.RateLimit > 0 {
			r.Use(mw.RateLimit(mw.RateLimitConfig{
				Burst:      d.RateLimit,
				PerMinute:  d.RatePerMin,
				MaxEntries: 10_000,
				TrustProxy: d.TrustProxy,
			}))
		}

		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetBookmark(d))
			r.Patch("/", handlers.UpdateBookmark(d))
			r.Delete("/", handlers.DeleteBookmark(d))
			r.Get("/usage", handlers.BookmarkUsage(d))
		})
	})
}
