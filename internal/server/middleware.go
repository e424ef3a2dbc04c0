package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// matchMiddleware resolves {id} to a live session.
func matchMiddleware(sessions *Registry, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				writeError(w, http.StatusNotFound, "match not found")
				return
			}

			sess, err := sessions.Get(r.Context(), id)
			if err != nil {
				writeMatchError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// scorerAuthMiddleware lets a request through only with the match's scorer
// token. It must run after matchMiddleware.
func scorerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sessionFrom(r).Authorize(r); err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid scorer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminAuthMiddleware checks the bearer token against the configured admin
// hash. With no hash configured every request is refused.
func adminAuthMiddleware(hash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := checkBearer(r, hash); err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(ctxKeySession).(*Session)
}
