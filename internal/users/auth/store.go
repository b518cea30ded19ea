// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups return [dberr.ErrNotFound] when no row matches.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByID(ctx context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - ctx: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account and fills its generated ID.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or persistence failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		UpdateProfile replaces the email and/or password hash of an account.

		Nil arguments leave the column untouched.

		Returns:
		  - *User: The account after the update
		  - error: dberr.ErrNotFound, apperr.Conflict on duplicate email, or persistence failures
	*/
	UpdateProfile(ctx context.Context, id int64, email, passwordHash *string) (*User, error)
}
