// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bookshelf catalog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Build the token engine and identity resolver.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/core/author"
	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/core/genre"
	"github.com/taibuivan/bookshelf/internal/core/review"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookshelf/internal/platform/redis"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/users/account"
	"github.com/taibuivan/bookshelf/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Bookshelf] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// SECRET_KEY and JWT_ALGORITHM are required; Load fails without them.
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("ranking_cache", cfg.CacheEnabled()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	collector := metrics.New()

	tokenService, err := sec.NewTokenService(cfg.SecretKey, cfg.JWTAlgorithm, constants.AuthIssuer,
		sec.WithDefaultTTL(cfg.AccessTokenTTL),
	)
	must(log, err, "initialize token service")
	log.Info("token_service_ready", slog.String("algorithm", tokenService.Algorithm()))

	userRepository := auth.NewUserRepository(pool)
	resolver := auth.NewResolver(tokenService, userRepository, collector, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(userRepository, tokenService, cfg.AccessTokenTTL, collector, log)
	accountService := account.NewService(userRepository, log)

	bookOptions := []book.ServiceOption{}
	if rdb != nil {
		bookOptions = append(bookOptions, book.WithCache(book.NewRedisRankingCache(rdb, cfg.RankingCacheTTL, collector)))
	}
	bookService := book.NewService(book.NewPostgresRepository(pool), log, bookOptions...)
	authorService := author.NewService(author.NewPostgresRepository(pool), log)
	genreService := genre.NewService(genre.NewPostgresRepository(pool), bookService, log)
	reviewService := review.NewService(review.NewPostgresRepository(pool), bookService, bookService, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Author:    author.NewHandler(authorService),
		Book:      book.NewHandler(bookService),
		Genre:     genre.NewHandler(genreService),
		Review:    review.NewHandler(reviewService),
	}

	server := api.NewServer(cfg, log, resolver, collector, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", "bookshelf"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
