// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Jane Doe", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("username", "tai").
		MinLen("username", "tai", 3).
		MaxLen("username", "tai", 10).
		Email("email", "tai@example.com").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").       // Fails
		MinLen("username", "a", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Password checks the password strength policy.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		errorCount int
	}{
		{"strong", "Str0ngP@ss1", 0},
		{"too_short", "Sh0rt", 1},
		{"no_uppercase", "weakpass1", 1},
		{"no_digit", "WeakPassword", 1},
		{"lowercase_only", "abc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Password("password", tt.password, 8).Err()

			if tt.errorCount == 0 {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Len(t, ae.Details, tt.errorCount)
		})
	}
}

/*
TestValidator_Match checks pattern-based rules such as the ISBN format.
*/
func TestValidator_Match(t *testing.T) {
	isbn := regexp.MustCompile(`^\d{3}-\d{10}$`)

	tests := []struct {
		value   string
		isValid bool
	}{
		{"123-0000000001", true},
		{"123-000000001", false},
		{"1230000000001", false},
		{"abc-0000000001", false},
		{"123-0000000001 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			v.Match("isbn", tt.value, isbn, "Must match NNN-NNNNNNNNNN")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Range checks inclusive integer bounds.
*/
func TestValidator_Range(t *testing.T) {
	for rating := 0; rating <= 6; rating++ {
		v := &validate.Validator{}
		v.Range("rating", rating, 1, 5)
		assert.Equal(t, rating < 1 || rating > 5, v.HasErrors(), "rating %d", rating)
	}
}
