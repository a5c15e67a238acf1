package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/menulink/menulink/services/business-service/internal/sessions"
)

type sessionContextKey struct{}

// sessionResolver resolves an opaque bearer token.
type sessionResolver interface {
	Get(ctx context.Context, raw string) (sessions.Session, error)
}

// RequireSession authenticates admin endpoints. The resolved session goes
// into the request context; handlers read the tenant scope from it.
func RequireSession(store sessionResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		sess, err := store.Get(r.Context(), token)
		if err != nil {
			if sessions.IsNotFound(err) {
				writeError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
		next(w, r.WithContext(ctx))
	}
}

func sessionFrom(r *http.Request) (sessions.Session, bool) {
	sess, ok := r.Context().Value(sessionContextKey{}).(sessions.Session)
	return sess, ok
}
