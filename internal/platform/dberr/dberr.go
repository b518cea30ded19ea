// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Callers that know which constraint they are guarding should test
// [IsUniqueViolation] / [IsForeignKeyViolation] first and return a precise message.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations are client errors
	if IsUniqueViolation(err) {
		return apperr.Conflict("Resource already exists")
	}
	if IsForeignKeyViolation(err) {
		return apperr.NotFound("Referenced resource")
	}
	if code := Code(err); code == pgerrcode.CheckViolation || code == pgerrcode.NotNullViolation {
		return apperr.ValidationError("Constraint violated: " + Constraint(err))
	}

	// 3. Everything else is a storage failure
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// Code returns the SQLSTATE of a Postgres error, or "" for any other error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Constraint returns the violated constraint name of a Postgres error, if any.
func Constraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsUniqueViolation reports whether err is a SQLSTATE 23505 error.
func IsUniqueViolation(err error) bool {
	return Code(err) == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a SQLSTATE 23503 error.
func IsForeignKeyViolation(err error) bool {
	return Code(err) == pgerrcode.ForeignKeyViolation
}
