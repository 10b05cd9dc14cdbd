package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/expense-web/internal/api"
	"github.com/baechuer/expense-web/internal/config"
	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/internal/tracing"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		zlog.Fatal().Err(err).Msg("config_invalid")
	}

	// 1.5 Init Logger
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	zlog.Info().Msg("logger initialized")

	// 2. Tracing
	tp, err := tracing.Init(context.Background(), tracing.Config{
		ServiceName:    api.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}

	// 3. Optional shared rate limit store
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the limiter fails open, so a missing Redis only weakens throttling
			zlog.Warn().Err(err).Msg("redis ping failed")
		}
		cancel()
	}

	// 4. Setup Router
	r, err := api.NewRouter(cfg, api.Deps{Redis: rdb})
	if err != nil {
		zlog.Fatal().Err(err).Msg("router setup failed")
	}

	// 5. Start Server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		zlog.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("expense-web starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("shutdown error")
	}
	if err := tp.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("tracer shutdown error")
	}
}
