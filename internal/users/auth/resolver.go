// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// TokenVerifier verifies a signed token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Resolver turns a bearer token into the request principal.
//
// Each call verifies the token and performs one user lookup; nothing is cached
// across requests.
type Resolver struct {
	verifier       TokenVerifier
	userRepository UserRepository
	recorder       FailureRecorder
	logger         *slog.Logger
}

// NewResolver constructs a [Resolver].
func NewResolver(verifier TokenVerifier, userRepo UserRepository, recorder FailureRecorder, logger *slog.Logger) *Resolver {
	return &Resolver{
		verifier:       verifier,
		userRepository: userRepo,
		recorder:       recorder,
		logger:         logger,
	}
}

/*
Resolve validates token and loads the account named by its subject.

Description: An invalid token, a missing subject and an unknown user all
yield the same Unauthorized error. Storage failures pass through as Internal.
*/
func (resolver *Resolver) Resolve(ctx context.Context, token string) (*sec.Principal, error) {
	claims, err := resolver.verifier.VerifyToken(token)
	if err != nil || claims.Subject == "" {
		return nil, resolver.reject("token_rejected", err)
	}

	user, err := resolver.userRepository.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, resolver.reject("token_subject_unknown", nil)
		}
		return nil, err
	}

	return user.Principal(), nil
}

func (resolver *Resolver) reject(event string, cause error) error {
	if resolver.recorder != nil {
		resolver.recorder.AuthFailure()
	}
	attrs := []any{}
	if cause != nil {
		attrs = append(attrs, slog.String("reason", cause.Error()))
	}
	resolver.logger.Debug(event, attrs...)
	return apperr.Unauthorized(apperr.MessageInvalidCredentials)
}
