// Copyright (c) 2026 Yomira. All rights reserved.
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

	"github.com/taibuivan/bookshelf/internal/core/author"
	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/core/genre"
	"github.com/taibuivan/bookshelf/internal/core/review"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	"github.com/taibuivan/bookshelf/internal/users/account"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration and token issuance.
	Auth *auth.Handler

	// Account serves the current user's profile.
	Account *account.Handler

	Author *author.Handler
	Book   *book.Handler
	Genre  *genre.Handler
	Review *review.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// A nil metrics value disables instrumentation and the /metrics endpoint.
func NewServer(cfg *config.Config, log *slog.Logger, resolver middleware.IdentityResolver, collector *metrics.Metrics, h Handlers) *Server {
	router := NewRouter(cfg, log, resolver, collector, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree on its own so tests can drive it through
// httptest without opening a socket.
func NewRouter(cfg *config.Config, log *slog.Logger, resolver middleware.IdentityResolver, collector *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if collector != nil {
		r.Use(collector.Instrument)
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.CORSOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	// # Application API
	// Bearer resolution runs only on domain routes so probes never touch storage.
	r.Group(func(api chi.Router) {
		api.Use(middleware.Authenticate(resolver))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Route("/authors", h.Author.RegisterRoutes)
		api.Route("/books", h.Book.RegisterRoutes)
		api.Route("/genres", h.Genre.RegisterRoutes)
		api.Route("/reviews", h.Review.RegisterRoutes)
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
