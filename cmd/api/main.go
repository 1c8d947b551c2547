package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Hahanic/momo-messenger/cmd/api/router/v1"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/auth"
	cacheAdapter "github.com/Hahanic/momo-messenger/internal/infrastructure/cache/adapter"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/database"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/metrics"
	queueAdapter "github.com/Hahanic/momo-messenger/internal/infrastructure/queue/adapter"
	"github.com/Hahanic/momo-messenger/internal/infrastructure/realtime"
	"github.com/Hahanic/momo-messenger/internal/pkg/chat/application/task"
	httpHandler "github.com/Hahanic/momo-messenger/internal/pkg/chat/presentation/http"
)

func main() {
	// Missing .env is fine in containers where the environment is injected.
	_ = godotenv.Load()

	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	tokens, err := auth.NewTokenManagerFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("token manager setup failed")
	}

	// Redis and asynq are optional at startup: the API runs without them, with
	// room caching and offline notifications disabled.
	redisCache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, room cache disabled")
	} else {
		defer redisCache.Close()
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		logger.Warn().Err(err).Msg("queue unavailable, offline notifications disabled")
	} else {
		defer queueClient.Close()
	}

	rtRouter := realtime.NewRouter(realtime.NewRegistry())
	defer rtRouter.Close()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), metrics.GinMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	deps := httpHandler.Deps{
		Pool:   pool,
		Router: rtRouter,
		Tokens: tokens,
		Logger: logger,
	}
	if redisCache != nil {
		deps.Cache = redisCache
	}
	if queueClient != nil {
		deps.Queue = queueClient
	}
	v1.RegisterRoutes(r, deps)

	// Host the background workers in-process when the queue is reachable.
	if queueClient != nil {
		workers, err := queueAdapter.NewAsynqServer(logger)
		if err != nil {
			logger.Warn().Err(err).Msg("worker server setup failed")
		} else {
			task.NewNotifyOfflineHandler(logger).Register(workers)
			go func() {
				if err := workers.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("worker server stopped")
				}
			}()
		}
	}

	addr := ":" + envOr("PORT", "8080")
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		level = l
	}
	var logger zerolog.Logger
	if os.Getenv("LOG_PRETTY") == "true" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
