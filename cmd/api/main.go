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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	cacheAdapter "github.com/texura-githhubsource/SMS/internal/infrastructure/cache/adapter"
	"github.com/texura-githhubsource/SMS/internal/infrastructure/database"
	queueAdapter "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/adapter"
	qport "github.com/texura-githhubsource/SMS/internal/infrastructure/queue/port"
	"github.com/texura-githhubsource/SMS/internal/infrastructure/realtime"

	v1 "github.com/texura-githhubsource/SMS/cmd/api/router/v1"
	identityAdapter "github.com/texura-githhubsource/SMS/internal/pkg/identity/adapter"
	identityport "github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/task"
	"github.com/texura-githhubsource/SMS/internal/pkg/tutor/provider"
)

func main() {
	_ = godotenv.Load() // env may also come from the runtime

	log := newLogger()
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	// Identity lookups go through Redis when available, straight to Postgres
	// otherwise.
	var dir identityport.Directory = identityAdapter.NewPgDirectory(pool)
	if cache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Warn("redis unavailable, identity cache disabled", zap.Error(err))
	} else {
		defer func() { _ = cache.Close() }()
		dir = identityAdapter.NewCachedDirectory(dir, cache)
	}

	gateway := realtime.NewGateway(log)
	defer gateway.Close()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queueClient := startWorkers(rootCtx, pool, log)
	if queueClient != nil {
		defer func() { _ = queueClient.Close() }()
	}

	chain := buildProviderChain(rootCtx, log)

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, dir, gateway, chain, queueClient, log)

	addr := ":" + envOr("PORT", "8080")
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var log *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return log
}

// startWorkers brings up the asynq client and an in-process worker when Redis
// is configured. It returns nil when it is not; messaging then runs without
// offline notifications.
func startWorkers(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) qport.Client {
	if os.Getenv("REDIS_URL") == "" {
		return nil
	}

	client, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Warn("queue client unavailable", zap.Error(err))
		return nil
	}

	worker, err := queueAdapter.NewAsynqServer(log)
	if err != nil {
		log.Warn("queue worker unavailable", zap.Error(err))
		_ = client.Close()
		return nil
	}
	task.RegisterNotifyOfflineTask(worker, pool)
	go func() {
		if err := worker.Run(ctx); err != nil {
			log.Error("queue worker stopped", zap.Error(err))
		}
	}()

	return client
}

// buildProviderChain assembles the ordered text-generation providers:
// every OpenRouter model first, then Gemini. An empty chain still works and
// answers from the built-in templates.
func buildProviderChain(ctx context.Context, log *zap.Logger) *provider.Chain {
	var providers []provider.Provider

	or := provider.NewOpenRouterClientFromEnv()
	if or.Configured() {
		providers = append(providers, or.Models(provider.DefaultModels)...)
	} else {
		log.Warn("OPENROUTER_API_KEY not set, skipping OpenRouter models")
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		g, err := provider.NewGeminiProvider(ctx, key, "")
		if err != nil {
			log.Warn("gemini client init failed", zap.Error(err))
		} else {
			providers = append(providers, g)
		}
	}

	return provider.NewChain(providers, log)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
