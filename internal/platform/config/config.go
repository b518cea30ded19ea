// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded first with 'joho/godotenv'; variables already set in the
process environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// SupportedAlgorithms lists the JWT_ALGORITHM values accepted at startup.
var SupportedAlgorithms = []string{"HS256", "HS384", "HS512"}

// # Configuration Schema

// Config holds all runtime configuration for the catalog API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the ranking cache.
	RedisURL        string        `env:"REDIS_URL"`
	RankingCacheTTL time.Duration `env:"RANKING_CACHE_TTL" envDefault:"60s"`

	// Token signing. Both values are mandatory.
	SecretKey      string        `env:"SECRET_KEY,required,notEmpty"`
	JWTAlgorithm   string        `env:"JWT_ALGORITHM,required,notEmpty"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces invariants env tags cannot express.
func (c *Config) validate() error {
	if !isSupportedAlgorithm(c.JWTAlgorithm) {
		return fmt.Errorf("config: JWT_ALGORITHM %q is not supported (want one of %v)", c.JWTAlgorithm, SupportedAlgorithms)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func isSupportedAlgorithm(algorithm string) bool {
	for _, supported := range SupportedAlgorithms {
		if algorithm == supported {
			return true
		}
	}
	return false
}
