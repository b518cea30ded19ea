// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the catalog service.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable Code and a client-safe message.
  - Kinds: Validation, NotFound, Conflict, Unauthorized and Internal (storage failure).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be an [AppError] so that the
transport layer can render a consistent API response.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// MessageInvalidCredentials is the one message every 401 carries, so callers
// cannot tell a missing token from a bad one or from a deleted user.
const MessageInvalidCredentials = "Could not validate credentials"

// AppError is the canonical error type for the catalog API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Book") // Returns "Book not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Conflict creates an [AppError] for duplicate or unique-constraint violations.
//
// The public API reports duplicates as 400 Bad Request; the CONFLICT code keeps
// them distinguishable from malformed input.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
