// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package genre manages genre tags. Names keep their display casing but
// collide case-insensitively ("Sci-Fi" and "sci-fi" are the same genre).
package genre

// Genre is a tag that books can carry.
type Genre struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

// Global field names for validation
const (
	FieldName = "name"
)

const nameMaxLength = 100

// Client-safe messages
const (
	MessageNameTaken = "Genre with this name already exists"
)
