// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold derives case-insensitive comparison keys from display names.
//
// # Usage
//
// Genre names keep the casing the client sent, while duplicate detection
// compares their keys ("Sci-Fi" and "sci-fi" share the key "sci-fi").
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key converts a display name into its comparison key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC so composed and decomposed accents compare equal.
// 2. Trims and collapses runs of whitespace into a single space.
// 3. Applies Unicode full case folding.
func Key(s string) string {
	result := norm.NFC.String(s)
	result = strings.Join(strings.Fields(result), " ")

	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(result)
}

// Equal reports whether two names share the same comparison key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
