// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Khatmah HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open both storage tiers (PostgreSQL, Redis, optional Badger).
//  4. Run database migrations (idempotent).
//  5. Wire reading services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown, draining durable writes last.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/khatmah/internal/api"
	"github.com/taibuivan/khatmah/internal/bootstrap"
	"github.com/taibuivan/khatmah/internal/platform/config"
	"github.com/taibuivan/khatmah/internal/platform/constants"
	"github.com/taibuivan/khatmah/internal/platform/migration"
	pgstore "github.com/taibuivan/khatmah/internal/platform/postgres"
	redisstore "github.com/taibuivan/khatmah/internal/platform/redis"
	"github.com/taibuivan/khatmah/internal/platform/sec"
	"github.com/taibuivan/khatmah/internal/platform/tiered"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/reading/tracker"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("local_cache_driver", cfg.LocalCacheDriver),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Storage tiers ──────────────────────────────────────────────────
	infra, err := bootstrap.Open(startupCtx, cfg, log)
	must(log, err, "open storage tiers")
	defer infra.Close()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Identity ───────────────────────────────────────────────────────
	verifier, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt verifier")

	// ── 6. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.DependencyCheck{
		{Name: "postgres", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, infra.Pool) }},
		{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, infra.Redis) }},
		{Name: "local_cache", Probe: func(ctx context.Context) error { return tiered.Probe(ctx, infra.Cache) }},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	services := bootstrap.NewServices(infra, cfg, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Bookmark:   bookmark.NewHandler(services.Bookmarks),
		PageTurn:   tracker.NewHandler(services.Tracker),
		Plan:       plan.NewHandler(services.Plans),
		SharedPlan: sharedplan.NewHandler(services.SharedPlans),
		Pacing:     pacing.NewHandler(infra.Clock),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	// infra.Close (deferred) drains the write-behind queue before the pool closes.
	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
