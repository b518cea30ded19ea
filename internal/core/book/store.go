// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// Repository defines persistence operations for books.
type Repository interface {
	ListBooks(ctx context.Context, limit, offset int) ([]*Book, int, error)
	GetBook(ctx context.Context, id int64) (*Book, error)

	// AuthorExists reports whether the author row is present.
	AuthorExists(ctx context.Context, authorID int64) (bool, error)

	// CreateBook inserts the book and its genre links in one transaction and fills book.ID.
	CreateBook(ctx context.Context, book *Book, genreIDs []int64) error

	// UpdateBook replaces the book's fields and genre links in one transaction.
	UpdateBook(ctx context.Context, book *Book, genreIDs []int64) error

	DeleteBook(ctx context.Context, id int64) error

	// TopRated returns reviewed books ordered by average rating, review count, then id.
	TopRated(ctx context.Context, limit int) ([]*RankedBook, error)
}

// RankingCache stores top-rated results by limit.
type RankingCache interface {
	Get(ctx context.Context, limit int) ([]*RankedBook, bool, error)
	Set(ctx context.Context, limit int, books []*RankedBook) error
	Invalidate(ctx context.Context) error
}
