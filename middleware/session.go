package middleware

import (
	"net/http"

	"github.com/baechuer/expense-web/internal/session"
)

// SessionFactory builds the session for one request, typically over the
// request's token cookie and a freshly bound API client.
type SessionFactory func(w http.ResponseWriter, r *http.Request) *session.Session

// Session constructs the per-request session before any guard or view runs
// and makes it available through session.FromContext.
func Session(build SessionFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := build(w, r)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
