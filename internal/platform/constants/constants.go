// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: JWT issuer and token type.
  - Headers and JSON field identifiers.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bookshelf-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle,
	// including every storage round-trip made while serving it.
	GlobalRequestTimeout = 8 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "bookshelf-api"

	// DefaultAccessTokenTTL is applied when no explicit lifetime is supplied.
	DefaultAccessTokenTTL = 15 * time.Minute

	// TokenTypeBearer is the OAuth2 token_type returned by the login endpoint.
	TokenTypeBearer = "bearer"
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
)

// # JSON Field Identifiers

const (
	FieldData   = "data"
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixTopRated = "catalog:top_rated:"
)
