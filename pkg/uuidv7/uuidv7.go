// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Catalog rows use integer keys; UUIDv7 is used for request correlation ids,
// where time ordering keeps log searches for one burst of traffic contiguous.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// If the v7 generator fails (OS entropy unavailable) it falls back to a random
// v4 value rather than panicking on the request path.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
