// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import "context"

// Repository defines persistence operations for genres.
//
// nameKey is always the folded form produced by [fold.Key].
type Repository interface {
	ListGenres(ctx context.Context, limit, offset int) ([]*Genre, int, error)
	GetGenre(ctx context.Context, id int64) (*Genre, error)
	FindGenreByKey(ctx context.Context, nameKey string) (*Genre, error)
	CreateGenre(ctx context.Context, genre *Genre, nameKey string) error
	UpdateGenre(ctx context.Context, genre *Genre, nameKey string) error
	DeleteGenre(ctx context.Context, id int64) error
}

// RankingInvalidator drops cached rankings, which embed genre names.
type RankingInvalidator interface {
	InvalidateRanking(ctx context.Context)
}
