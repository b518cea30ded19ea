// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

// Constraint names declared by the schema migration.
const (
	constraintUsernameKey = "users_username_key"
	constraintEmailKey    = "users_email_key"
)

// Client-safe conflict messages shared with the service layer.
const (
	MessageUsernameTaken = "Username already registered"
	MessageEmailTaken    = "Email already registered"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var selectUserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
FindByID retrieves a user record by its primary key.

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return repository.findOne(ctx, schema.UserAccount.ID, id, "find_user_by_id")
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and token resolution.
*/
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findOne(ctx, schema.UserAccount.Username, username, "find_user_by_username")
}

/*
FindByEmail retrieves a user record by their unique email address.
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findOne(ctx, schema.UserAccount.Email, email, "find_user_by_email")
}

func (repository *PostgresUserRepository) findOne(ctx context.Context, column string, value any, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectUserColumns, schema.UserAccount.Table, column,
	)

	user := &User{}
	err := repository.db.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	return user, nil
}

/*
Create persists a new user record into the users table.

Description: The unique constraints on username and email are the final
authority; concurrent registrations racing past the service pre-check surface
here as a Conflict.

Returns:
  - error: apperr.Conflict on duplicates, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.ID, schema.UserAccount.IsActive,
	)

	err := repository.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.IsActive)
	if err != nil {
		return mapUserError(err, "create_user")
	}

	return nil
}

/*
UpdateProfile replaces the email and/or password hash in a single statement.

Description: COALESCE keeps columns whose argument is NULL. A missing row
surfaces as dberr.ErrNotFound.
*/
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, id int64, email, passwordHash *string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s), %s = COALESCE($3, %s), %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		selectUserColumns,
	)

	user := &User{}
	err := repository.db.QueryRow(ctx, query, id, email, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
	)
	if err != nil {
		return nil, mapUserError(err, "update_user_profile")
	}

	return user, nil
}

// mapUserError turns unique violations into field-specific conflicts.
func mapUserError(err error, action string) error {
	if dberr.IsUniqueViolation(err) {
		switch dberr.Constraint(err) {
		case constraintUsernameKey:
			return apperr.Conflict(MessageUsernameTaken)
		case constraintEmailKey:
			return apperr.Conflict(MessageEmailTaken)
		}
	}
	return dberr.Wrap(err, action)
}
