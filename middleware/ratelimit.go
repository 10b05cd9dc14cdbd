package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

var throttledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "login_throttled_total",
		Help:      "Credential submissions rejected or let through by the Redis limiter",
	},
	[]string{"outcome"},
)

// slidingWindow trims entries older than the window, counts the rest and
// records the request only when it is admitted, all in one round trip.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	if redis.call('ZCARD', key) >= limit then
		return 0
	end
	redis.call('ZADD', key, now, now .. '-' .. math.random())
	redis.call('PEXPIRE', key, ttl)
	return 1
`)

// RedisRateLimiter implements a sliding window rate limiter backed by Redis,
// shared by every replica of the web shell.
type RedisRateLimiter struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRateLimiter(rdb *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		prefix: "rl:expense-web:",
	}
}

// RateLimitConfig configures the rate limit for a specific scope.
type RateLimitConfig struct {
	Limit  int           // Max requests allowed
	Window time.Duration // Time window
	KeyFn  func(r *http.Request) string
}

// Middleware enforces cfg. Redis being absent or failing lets requests through.
func (l *RedisRateLimiter) Middleware(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := l.prefix + cfg.KeyFn(r)
			allowed, err := l.isAllowed(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				throttledTotal.WithLabelValues("fail_open").Inc()
				zlog.Warn().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("rate_limit_unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				throttledTotal.WithLabelValues("blocked").Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				http.Error(w, "Demasiados intentos. Intente nuevamente más tarde.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (l *RedisRateLimiter) isAllowed(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixMilli()
	windowStart := now - window.Milliseconds()

	result, err := slidingWindow.Run(ctx, l.rdb, []string{key}, now, windowStart, limit, int(window.Milliseconds())).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

// KeyByIP keys on the client address without its port. Forwarding headers
// are ignored here; see ClientIP for running behind a proxy.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// maxLoginBody bounds how much of a JSON login body is buffered for keying;
// the rest is left unread for the handler.
const maxLoginBody = 8 << 10

// KeyByLogin scopes the limit to the login form: one bucket per client IP
// and submitted username, case-insensitively. Anything that is not a form
// post is read as the JSON login body and put back for the handler.
func KeyByLogin(r *http.Request) string {
	return "login:" + KeyByIP(r) + ":" + loginUsername(r)
}

func loginUsername(r *http.Request) string {
	var user string
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		user = r.PostFormValue("username")
	} else if r.Body != nil {
		orig := r.Body
		body, err := io.ReadAll(io.LimitReader(orig, maxLoginBody))
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), orig), orig}
		if err == nil {
			var form struct {
				Username string `json:"username"`
			}
			if json.Unmarshal(body, &form) == nil {
				user = form.Username
			}
		}
	}
	return strings.ToLower(strings.TrimSpace(user))
}
