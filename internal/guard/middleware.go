package guard

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/session"
)

var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guard_decisions_total",
		Help: "Route guard decisions by outcome",
	},
	[]string{"outcome"},
)

// Require gates next behind Decide, reading the session that
// middleware.Session put in the request context.
func Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var a Authorizer
			if s, ok := session.FromContext(r.Context()); ok {
				a = s
			}

			d := Decide(a, r.URL.RequestURI(), roles)
			decisionsTotal.WithLabelValues(d.Outcome.String()).Inc()

			if d.Outcome == Render {
				next.ServeHTTP(w, r)
				return
			}

			logger.Ctx(r.Context()).Debug().
				Str("path", r.URL.Path).
				Str("outcome", d.Outcome.String()).
				Strs("roles", roles).
				Msg("guard_redirect")

			http.Redirect(w, r, d.RedirectURL(), http.StatusSeeOther)
		})
	}
}
