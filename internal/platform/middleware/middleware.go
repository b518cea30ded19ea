// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured Activity logging (slog).
  - Guard: CORS validation and bearer authentication.
  - Safe: Panic recovery to prevent server crashes.

This package ensures that domain handlers can focus purely on business logic
without worrying about infrastructure-level concerns.
*/
package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/cors"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/pkg/uuidv7"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (using UUID v7 for time-sortable properties)
			if requestID == "" {
				requestID = uuidv7.New()
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and performance metrics.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()
			rid := ctxutil.GetRequestID(request.Context())
			ip := RealIP(request)

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", rid),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", ip),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// 3. Proceed to downstream handlers with the enriched context
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 4. Final log entry after the request is finished
			latency := time.Since(startTime).Milliseconds()
			logLevel := slog.LevelInfo

			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			// Enlist final response metrics
			logAtters := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", latency),
				slog.String("user_agent", request.UserAgent()),
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", logAtters...)
		})
	}
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Defer a recovery function to catch any runtime exceptions
			defer func() {
				if err := recover(); err != nil {

					// Capture the runtime stack trace for diagnostics
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					// Retrieve the request-specific logger from context if available
					reqLogger := ctxutil.GetLogger(request.Context())

					// Log the incident to our structured logging system
					reqLogger.ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					// Return a safe, generic error to the client
					writeError(writer, http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// CORSConfig defines the behavior needed by the CORS middleware.
type CORSConfig interface {
	IsDevelopment() bool
}

// CORS handles Cross-Origin Resource Sharing through go-chi/cors.
//
// An explicit origin list always wins. Without one, development mode allows
// any origin and every other environment allows none.
func CORS(cfg CORSConfig, origins []string) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", constants.HeaderXRequestID},
		ExposedHeaders: []string{constants.HeaderXRequestID},
		MaxAge:         300,
	}

	// go-chi/cors treats an empty origin list as "*", so the closed case needs a func.
	if len(origins) == 0 {
		allowAll := cfg.IsDevelopment()
		options.AllowOriginFunc = func(_ *http.Request, _ string) bool { return allowAll }
	}

	return cors.Handler(options)
}

// # Middleware Helpers

// RealIP extracts client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {

	// Check standard proxy headers first
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	// Fallback to the direct connection's address
	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}

// writeError outputs a simple JSON error payload.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
