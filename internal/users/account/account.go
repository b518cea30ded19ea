// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the authenticated user's own profile.

It lets the current user read their identity and rotate their email address
or password.

# Architecture

  - Domain: This package depends on the auth package for the User entity,
    its repository and its password policy.
  - Security: A password rotation replaces the stored hash only.
*/
package account

// # Domain Inputs

// UpdateProfileInput defines the mutable subset of the account.
//
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Email    *string
	Password *string
}

// IsEmpty reports whether the input carries no change at all.
func (input UpdateProfileInput) IsEmpty() bool {
	return input.Email == nil && input.Password == nil
}
