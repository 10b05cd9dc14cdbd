package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/baechuer/expense-web/internal/api/handlers"
	"github.com/baechuer/expense-web/internal/config"
	"github.com/baechuer/expense-web/internal/domain"
	"github.com/baechuer/expense-web/internal/downstream"
	"github.com/baechuer/expense-web/internal/guard"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/nav"
	"github.com/baechuer/expense-web/internal/proxy"
	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/internal/views"
	"github.com/baechuer/expense-web/middleware"
)

const ServiceName = "expense-web"

// Deps are the process-wide collaborators of the router. Redis is optional.
type Deps struct {
	Client *downstream.Client
	Views  *views.Renderer
	Redis  *redis.Client
}

type screen struct {
	get  http.HandlerFunc
	post http.HandlerFunc
}

func NewRouter(cfg *config.Config, deps Deps) (http.Handler, error) {
	if deps.Client == nil {
		deps.Client = downstream.NewClient(cfg.APIBaseURL, downstream.ClientConfig{
			ReadTimeout:  cfg.DownstreamReadTimeout,
			WriteTimeout: cfg.DownstreamWriteTimeout,
		})
	}
	if deps.Views == nil {
		v, err := views.New()
		if err != nil {
			return nil, err
		}
		deps.Views = v
	}

	dataProxy, err := proxy.New(cfg.APIBaseURL, "/api/data", boundBearer)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// 1. Middleware
	if cfg.TrustProxy {
		r.Use(middleware.ClientIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(middleware.Tracing(ServiceName))

	// 2. Ops
	checkers := []handlers.ReadinessChecker{handlers.NewHTTPReadinessChecker("api", cfg.APIBaseURL)}
	if deps.Redis != nil {
		checkers = append(checkers, handlers.NewRedisReadinessChecker(deps.Redis))
	}
	ready := handlers.NewReadinessHandler(checkers...)
	r.Get("/healthz", ready.Healthz)
	r.Get("/readyz", ready.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	h := handlers.New(deps.Views)
	limitLogin := loginLimiter(cfg, deps.Redis)
	cookie := session.CookieOptions{Secure: cfg.CookieSecure, MaxAge: cfg.CookieMaxAge}

	r.Group(func(r chi.Router) {
		// 3. Per-request session: token cookie + forked client binding
		r.Use(bindClient(deps.Client))
		r.Use(middleware.Session(sessionFactory(cookie)))

		r.Get(guard.LoginPath, h.LoginPage)
		r.With(limitLogin).Post(guard.LoginPath, h.Login)
		r.Post("/logout", h.Logout)
		r.Get(guard.ForbiddenPath, h.Unauthorized)

		// 4. JSON API for browser-side widgets
		r.Route("/api", func(r chi.Router) {
			r.Get("/session", h.SessionInfo)
			r.With(limitLogin).Post("/session", h.SessionLogin)
			r.Delete("/session", h.SessionLogout)

			r.Group(func(r chi.Router) {
				r.Use(handlers.RequireAPISession)
				r.Get("/menu", h.Menu)
				r.Mount("/data", dataProxy)
			})
		})

		// 5. Protected screens
		screens := map[string]screen{
			nav.PathHome:            {get: h.Home},
			nav.PathExpenseTypes:    {get: h.ExpenseTypes, post: h.CreateExpenseType},
			nav.PathUsers:           {get: h.Users},
			nav.PathFunds:           {get: h.Funds, post: h.CreateFund},
			nav.PathBudgets:         {get: h.Budgets, post: h.SaveBudget},
			nav.PathDeposits:        {get: h.DepositForm, post: h.CreateDeposit},
			nav.PathExpenses:        {get: h.ExpenseForm, post: h.CreateExpense},
			nav.PathMovements:       {get: h.Movements},
			nav.PathAdminMovements:  {get: h.AdminMovements},
			nav.PathBudgetExecution: {get: h.BudgetExecution},
		}
		for _, route := range nav.Routes {
			s, ok := screens[route.Path]
			if !ok {
				continue
			}
			r.Group(func(r chi.Router) {
				r.Use(guard.Require(route.Roles...))
				r.Get(route.Path, s.get)
				if s.post != nil {
					r.Post(route.Path, s.post)
				}
			})
		}

		r.With(guard.Require()).Post(nav.PathFunds+"/{id}", h.UpdateFund)
		r.With(guard.Require()).Post(nav.PathFunds+"/{id}/eliminar", h.DeleteFund)
		r.With(guard.Require(domain.RoleAdmin)).Post(nav.PathExpenseTypes+"/{id}", h.UpdateExpenseType)
		r.With(guard.Require(domain.RoleAdmin)).Post(nav.PathExpenseTypes+"/{id}/eliminar", h.DeleteExpenseType)
	})

	logger.Log.Info().
		Str("api", cfg.APIBaseURL).
		Bool("redis_rate_limit", deps.Redis != nil).
		Int("screens", len(nav.Routes)).
		Msg("routes_mounted")

	return r, nil
}
