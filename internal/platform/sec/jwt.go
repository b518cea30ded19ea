// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces declared by the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by [TokenService.VerifyToken] for any token that is
// malformed, carries a bad signature, uses an unexpected algorithm, or has expired.
var ErrInvalidToken = errors.New("sec: invalid token")

// supportedMethods lists the symmetric algorithms the service can be configured with.
var supportedMethods = map[string]*jwt.SigningMethodHMAC{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The subject ("sub") carries the username; the account itself is re-read from
// storage on every request, so no profile data is embedded here.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// TokenService handles generation and verification of HMAC-signed JWT tokens.
//
// The verifying algorithm is fixed at construction. The "alg" header of an
// incoming token is never trusted to choose it.
type TokenService struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	issuer     string
	defaultTTL time.Duration
	now        func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithDefaultTTL overrides the lifetime applied when GenerateAccessToken gets a zero TTL.
func WithDefaultTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		if ttl > 0 {
			service.defaultTTL = ttl
		}
	}
}

// WithClock overrides the issuing clock. Verification always uses wall time.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		if now != nil {
			service.now = now
		}
	}
}

// NewTokenService creates a new TokenService.
//
// It fails fast when the secret is empty or the algorithm is not one of
// HS256, HS384 or HS512.
func NewTokenService(secret, algorithm, issuer string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret is required")
	}
	if algorithm == "" {
		return nil, fmt.Errorf("sec: signing algorithm is required")
	}

	method, ok := supportedMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	service := &TokenService{
		secret:     []byte(secret),
		method:     method,
		issuer:     issuer,
		defaultTTL: 15 * time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Algorithm returns the pinned signing algorithm name.
func (service *TokenService) Algorithm() string {
	return service.method.Alg()
}

// GenerateAccessToken creates a new JWT access token whose subject is the username.
//
// A zero or negative timeToLive falls back to the configured default (15 minutes).
func (service *TokenService) GenerateAccessToken(subject string, timeToLive time.Duration) (string, error) {
	if timeToLive <= 0 {
		timeToLive = service.defaultTTL
	}

	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// Every failure wraps [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != service.method {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(service.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}

	return claims, nil
}
