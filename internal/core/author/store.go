// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

// Repository persists authors. Missing rows are reported as dberr.ErrNotFound.
type Repository interface {
	ListAuthors(ctx context.Context, limit, offset int) ([]*Author, int, error)
	GetAuthor(ctx context.Context, id int64) (*Author, error)
	CreateAuthor(ctx context.Context, a *Author) error
	UpdateAuthor(ctx context.Context, a *Author) error
	DeleteAuthor(ctx context.Context, id int64) error
}
