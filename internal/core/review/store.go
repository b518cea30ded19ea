// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// Repository defines persistence operations for reviews.
type Repository interface {
	// CreateReview inserts the review and fills its ID.
	CreateReview(ctx context.Context, review *Review) error
	ListByBook(ctx context.Context, bookID int64) ([]*Review, error)
}

// BookChecker confirms that a review target exists.
type BookChecker interface {
	Exists(ctx context.Context, bookID int64) (bool, error)
}

// RankingInvalidator drops derived rankings after a rating changes.
type RankingInvalidator interface {
	InvalidateRanking(ctx context.Context)
}
