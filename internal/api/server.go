// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/khatmah/internal/platform/config"
	"github.com/taibuivan/khatmah/internal/platform/constants"
	"github.com/taibuivan/khatmah/internal/platform/middleware"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/reading/tracker"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when both storage tiers answer.
	Readiness http.HandlerFunc

	// Bookmark serves the reader's last position.
	Bookmark *bookmark.Handler

	// PageTurn fans a page turn out to the bookmark and both plans.
	PageTurn *tracker.Handler

	// Plan manages personal plans.
	Plan *plan.Handler

	// SharedPlan manages plans shared by linked readers.
	SharedPlan *sharedplan.Handler

	// Pacing projects arbitrary schedules. Public.
	Pacing *pacing.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg, cfg.ExtraOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/pacing", h.Pacing.Routes())

		api.Route("/reading", func(reading chi.Router) {
			reading.Use(middleware.RequireAuth)

			reading.Mount("/bookmark", h.Bookmark.Routes())
			reading.Mount("/page-turn", h.PageTurn.Routes())
			reading.Mount("/plans", h.Plan.Routes())
			reading.Mount("/shared-plans", h.SharedPlan.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
