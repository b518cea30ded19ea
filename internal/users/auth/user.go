// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and bearer identity resolution.

It defines the User entity shared with the account package, the repository
contract that persists it, and the service that issues access tokens.

# Architecture

  - Service: Register and Login use cases.
  - Resolver: Turns a bearer token into the request [sec.Principal].
  - Repository: PostgreSQL-backed storage of accounts.
*/
package auth

import (
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account of the catalog.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	IsActive     *bool  `json:"is_active"`
}

// Principal projects the account onto the request-scoped identity.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
)

// # Account Constraints

const (
	// UsernameMaxLength bounds the stored username.
	UsernameMaxLength = 50

	// EmailMaxLength bounds the stored email address.
	EmailMaxLength = 254

	// PasswordMinLength is the minimum password length accepted at registration.
	PasswordMinLength = 8
)
