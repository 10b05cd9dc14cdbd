package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// APIBaseURL is the single base endpoint of the remote expenses API.
	APIBaseURL string

	CookieSecure bool
	CookieMaxAge time.Duration

	DownstreamReadTimeout  time.Duration
	DownstreamWriteTimeout time.Duration

	// Login rate limiting; Redis is optional and shared across replicas.
	RedisURL      string
	LoginRLLimit  int
	LoginRLWindow time.Duration

	// TrustProxy takes the client address from the right-most
	// X-Forwarded-For hop. Leave off unless a proxy always sets it.
	TrustProxy bool

	LogLevel  string
	LogFormat string

	TracingEnabled bool
	OTLPEndpoint   string
	ServiceVersion string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("HTTP_PORT", "8080"),
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		RedisURL:   getEnv("REDIS_URL", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),

		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", ""),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
	}

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}
	if cfg.TracingEnabled, err = getBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.CookieMaxAge, err = getDuration("SESSION_COOKIE_MAX_AGE", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.DownstreamReadTimeout, err = getDuration("DOWNSTREAM_READ_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.DownstreamWriteTimeout, err = getDuration("DOWNSTREAM_WRITE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LoginRLLimit, err = getInt("RL_LOGIN_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.LoginRLWindow, err = getDuration("RL_LOGIN_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("missing required env var: API_BASE_URL")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.LoginRLLimit <= 0 {
		return fmt.Errorf("RL_LOGIN_LIMIT must be positive")
	}
	if c.TracingEnabled && c.OTLPEndpoint == "" {
		return fmt.Errorf("TRACING_ENABLED requires OTLP_ENDPOINT")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
