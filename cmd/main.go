package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tiara-stack/tiara-stack/internal/app"
	"github.com/tiara-stack/tiara-stack/internal/config"
	"github.com/tiara-stack/tiara-stack/internal/derive"
	"github.com/tiara-stack/tiara-stack/internal/domain"
	"github.com/tiara-stack/tiara-stack/internal/infra/handler"
	"github.com/tiara-stack/tiara-stack/internal/infra/snapshot"
	"github.com/tiara-stack/tiara-stack/internal/infra/upstream"
	"github.com/tiara-stack/tiara-stack/internal/observability/logging"
	"github.com/tiara-stack/tiara-stack/internal/observability/middleware"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.Log)

	defaultZone, err := domain.ZoneFromString(cfg.Cache.DefaultZone)
	if err != nil {
		slog.Error("invalid default timezone", "error", err, "zone", cfg.Cache.DefaultZone)
		return 1
	}

	snapshots, err := initSnapshotStore(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize snapshot store", "error", err)
		return 1
	}

	client, err := upstream.NewHTTPClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, snapshots)
	if err != nil {
		slog.Error("failed to initialize upstream client", "error", err)
		return 1
	}

	registry := derive.NewRegistry()
	scheduleUseCase := app.NewScheduleUseCase(registry, client, defaultZone)
	scheduleHandler := handler.NewScheduleHandler(scheduleUseCase)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subscriber, err := initSubscriber(cfg)
	if err != nil {
		slog.Error("failed to initialize invalidation subscriber", "error", err)
		return 1
	}

	if subscriber != nil {
		defer func() {
			if err := subscriber.Close(); err != nil {
				slog.Warn("failed to close subscriber", "error", err)
			}
		}()

		go func() {
			if err := subscriber.Run(ctx, scheduleUseCase); err != nil {
				slog.Error("invalidation subscriber stopped", "error", err)
			}
		}()
	}

	router := setupRouter(scheduleHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "address", cfg.Server.Address())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return 1
	}

	slog.Info("server exited properly")

	return 0
}

func initSnapshotStore(cfg config.CacheConfig) (*snapshot.Store, error) {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, snapshot layer disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	slog.Info("snapshot store initialized", "addr", cfg.RedisAddr, "ttl", cfg.SnapshotTTL)

	return snapshot.NewStore(client, cfg.SnapshotTTL), nil
}

func setupRouter(scheduleHandler *handler.ScheduleHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.PanicRecoveryGin())
	router.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/ping"},
		TracerName: "tiara-stack",
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	scheduleHandler.RegisterRoutes(v1)

	return router
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logging.NewContextHandler(jsonHandler)))
}
