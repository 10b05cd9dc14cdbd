package api

import (
	"net/http"

	"github.com/baechuer/expense-web/internal/api/handlers"
	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/middleware"
)

// bindClient gives each request its own fork of the API client, so the
// bearer bound for one browser never leaks into another's calls.
func bindClient(base *downstream.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := handlers.WithClient(r.Context(), base.Fork())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFactory builds the request session over the token cookie. The
// forked client is both the credential binder and the authenticator's
// transport; session.New hydrates it from the cookie.
func sessionFactory(opts session.CookieOptions) middleware.SessionFactory {
	return func(w http.ResponseWriter, r *http.Request) *session.Session {
		client := handlers.ClientFrom(r.Context())
		store := session.NewCookieStore(w, r, opts)
		return session.New(store, client, downstream.NewAuthClient(client))
	}
}

// boundBearer hands the proxy the token bound to the request's client.
func boundBearer(r *http.Request) string {
	if c := handlers.ClientFrom(r.Context()); c != nil {
		return c.Bearer()
	}
	return ""
}
