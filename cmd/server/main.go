package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focustoday/focuspulse/internal/adapter/eventpublisher"
	"github.com/focustoday/focuspulse/internal/adapter/httpserver"
	"github.com/focustoday/focuspulse/internal/adapter/postgres"
	"github.com/focustoday/focuspulse/internal/adapter/redis"
	"github.com/focustoday/focuspulse/internal/app"
	"github.com/focustoday/focuspulse/internal/intervention"
	"github.com/focustoday/focuspulse/internal/metrics"
	"github.com/focustoday/focuspulse/internal/platform/config"
	"github.com/focustoday/focuspulse/internal/platform/logging"
	"github.com/focustoday/focuspulse/internal/platform/version"
	"github.com/focustoday/focuspulse/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func healthChecks(pool *pgxpool.Pool, redisClient *goredis.Client) []httpserver.HealthCheck {
	return []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	build := version.Get()
	metrics.BuildInfo.WithLabelValues(build.Version, build.Commit, build.GoVersion).Set(1)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	sessionRepo := postgres.NewSessionRepo(pool)
	interventionRepo := postgres.NewInterventionRepo(pool)

	events := eventpublisher.New(redis.NewEventSink(redisClient))

	lifecycle := session.NewService(sessionRepo, events, clock, cfg.TaskDisplayScope)
	exits := session.NewAnalyzer(sessionRepo, events, clock, cfg.EarlyExitThreshold(), cfg.HighRiskExitInactionMs)
	interventions := intervention.NewService(sessionRepo, interventionRepo, events, clock, cfg.InactionTrigger())

	appSvc := app.NewService(lifecycle, exits, interventions)

	srv := httpserver.NewServer(cfg, appSvc, healthChecks(pool, redisClient))

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
