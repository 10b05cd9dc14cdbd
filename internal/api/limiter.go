package api

import (
	"net/http"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"

	"github.com/baechuer/expense-web/internal/config"
	"github.com/baechuer/expense-web/middleware"
)

// loginLimiter throttles credential submissions. With Redis the window is
// shared by all replicas and keyed per IP and username; without it each
// process limits per IP in memory.
func loginLimiter(cfg *config.Config, rdb *redis.Client) func(http.Handler) http.Handler {
	if rdb != nil {
		return middleware.NewRedisRateLimiter(rdb).Middleware(middleware.RateLimitConfig{
			Limit:  cfg.LoginRLLimit,
			Window: cfg.LoginRLWindow,
			KeyFn:  middleware.KeyByLogin,
		})
	}
	return httprate.Limit(
		cfg.LoginRLLimit,
		cfg.LoginRLWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}
