package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

const unauthorizedMsg = "Unauthorized request"

// BearerAuth rejects requests whose Authorization header does not carry the
// configured token. The handler is never reached on failure.
func BearerAuth(token string, log logger.Logger) func(http.Handler) http.Handler {
	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				log.Warn("unauthorized request",
					logger.String("path", r.URL.Path),
					logger.String("remote_ip", r.RemoteAddr),
					logger.String("request_id", middleware.GetReqID(r.Context())))
				writeError(w, http.StatusUnauthorized, unauthorizedMsg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token of a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
