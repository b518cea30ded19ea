// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// IdentityResolver turns a raw bearer token into the request principal.
//
// # Why an interface?
//
// Declaring it here keeps the middleware free of the users/auth package and lets
// tests inject a stub.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*sec.Principal, error)
}

// Authenticate extracts the bearer token and resolves it to a [sec.Principal].
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve the token via [IdentityResolver]. Any failure aborts with 401,
//     even on routes that allow anonymous access.
//  4. Inject the principal (and a logger tagged with the username) into the context.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized(apperr.MessageInvalidCredentials))
				return
			}

			// ── 3. Identity Resolution ────────────────────────────────────────
			principal, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			logger := ctxutil.GetLogger(ctx).With(slog.String("username", principal.Username))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized(apperr.MessageInvalidCredentials))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
