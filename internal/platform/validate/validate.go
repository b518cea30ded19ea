// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	// ParseAddress also accepts display-name forms ("A <a@x.com>"); only bare addresses pass.
	if address, err := mail.ParseAddress(value); err != nil || address.Address != value {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Match fails with message if the value does not match pattern.
func (v *Validator) Match(field, value string, pattern *regexp.Regexp, message string) *Validator {
	if !pattern.MatchString(value) {
		v.add(field, message)
	}
	return v
}

// MaxBytes fails if the encoded length of value exceeds max bytes.
func (v *Validator) MaxBytes(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d bytes", max))
	}
	return v
}

// Positive fails if the value is zero or negative.
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.add(field, "Must be a positive number")
	}
	return v
}

// Password enforces the account password policy: at least minLen characters,
// one uppercase letter and one digit.
func (v *Validator) Password(field, value string, minLen int) *Validator {
	if utf8.RuneCountInString(value) < minLen {
		v.add(field, fmt.Sprintf("Minimum %d characters", minLen))
	}

	var hasUpper, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		v.add(field, "Must contain at least one uppercase letter")
	}
	if !hasDigit {
		v.add(field, "Must contain at least one digit")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("publication_year", year > currentYear, "Must not be in the future")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
