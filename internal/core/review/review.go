// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package review records reader ratings of books. The reviewer is always the
// authenticated principal; clients never choose user_id.
package review

// Review is one rating of a book by a user.
type Review struct {
	ID      int64   `json:"id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
	BookID  int64   `json:"book_id"`
	UserID  int64   `json:"user_id"`
}

// Input is the client-writable subset of a review.
type Input struct {
	Rating  int
	Comment *string
	BookID  int64
}

// Global field names for validation
const (
	FieldRating  = "rating"
	FieldComment = "comment"
	FieldBookID  = "book_id"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

const commentMaxLength = 5000
