// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
)

const constraintBookFK = "reviews_book_fk"

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) CreateReview(ctx context.Context, review *Review) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.CoreReview.Table,
		schema.CoreReview.Rating, schema.CoreReview.Comment, schema.CoreReview.BookID, schema.CoreReview.UserID,
		schema.CoreReview.ID,
	)

	err := repository.db.QueryRow(ctx, query, review.Rating, review.Comment, review.BookID, review.UserID).Scan(&review.ID)
	if err != nil {
		// The book was deleted between the existence check and the insert.
		if dberr.Constraint(err) == constraintBookFK {
			return apperr.NotFound("Book")
		}
		return dberr.Wrap(err, "create_review")
	}
	return nil
}

func (repository *PostgresRepository) ListByBook(ctx context.Context, bookID int64) ([]*Review, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.CoreReview.ID, schema.CoreReview.Rating, schema.CoreReview.Comment, schema.CoreReview.BookID, schema.CoreReview.UserID,
		schema.CoreReview.Table,
		schema.CoreReview.BookID,
		schema.CoreReview.ID,
	)

	rows, err := repository.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(&review.ID, &review.Rating, &review.Comment, &review.BookID, &review.UserID); err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, dberr.Wrap(rows.Err(), "list_reviews")
}
