// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreReviewTable represents the 'reviews' table
type CoreReviewTable struct {
	Table     string
	ID        string
	Rating    string
	Comment   string
	BookID    string
	UserID    string
	CreatedAt string
}

// CoreReview is the schema definition for reviews
var CoreReview = CoreReviewTable{
	Table:     "reviews",
	ID:        "id",
	Rating:    "rating",
	Comment:   "comment",
	BookID:    "book_id",
	UserID:    "user_id",
	CreatedAt: "created_at",
}

func (t CoreReviewTable) Columns() []string {
	return []string{t.ID, t.Rating, t.Comment, t.BookID, t.UserID}
}
