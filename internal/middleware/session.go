package middleware

import (
	"context"
	"net/http"
	"strings"

	domsession "github.com/aydinworks/content-advisor/internal/domain/session"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver maps a client token to a session (nil when absent/unknown)
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *domsession.Session
}

// SessionMiddleware attaches the caller's anonymous session to the request
// context. Sessions are optional everywhere: a missing or unknown token never
// rejects the request, it just leaves the session absent.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Session-Token")
			if token == "" {
				// Support "Authorization: Bearer <token>" as well
				auth := r.Header.Get("Authorization")
				token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
			if token != "" && resolver != nil {
				if sess := resolver.Resolve(r.Context(), token); sess != nil {
					ctx := context.WithValue(r.Context(), sessionKey, sess)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from context (nil when absent)
func GetSessionFromContext(ctx context.Context) *domsession.Session {
	if sess, ok := ctx.Value(sessionKey).(*domsession.Session); ok {
		return sess
	}
	return nil
}
