// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional (pointer) fields.

Key Functions:
  - To: Creates a pointer from a value literal.
  - Val: Safely dereferences a pointer, returning the zero value if nil.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value of T when p is nil.
//
// Optional text fields validate through it: an absent value is an empty string.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
