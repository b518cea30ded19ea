// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

type Service struct {
	repo    Repository
	books   BookChecker
	ranking RankingInvalidator
	logger  *slog.Logger
}

func NewService(repo Repository, books BookChecker, ranking RankingInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		books:   books,
		ranking: ranking,
		logger:  logger,
	}
}

/*
CreateReview stores a rating by userID.

Description: The rating is validated before any storage call. A successful
write invalidates the cached top-rated rankings.
*/
func (service *Service) CreateReview(ctx context.Context, userID int64, input Input) (*Review, error) {
	validator := &validate.Validator{}
	validator.Range(FieldRating, input.Rating, MinRating, MaxRating)
	validator.Positive(FieldBookID, input.BookID)
	validator.MaxLen(FieldComment, pointer.Val(input.Comment), commentMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureBook(ctx, input.BookID); err != nil {
		return nil, err
	}

	review := &Review{
		Rating:  input.Rating,
		Comment: input.Comment,
		BookID:  input.BookID,
		UserID:  userID,
	}
	if err := service.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("book_id", review.BookID),
		slog.Int("rating", review.Rating),
	)
	if service.ranking != nil {
		service.ranking.InvalidateRanking(ctx)
	}
	return review, nil
}

// ListByBook returns the book's reviews, oldest first. An unknown book is NotFound.
func (service *Service) ListByBook(ctx context.Context, bookID int64) ([]*Review, error) {
	if err := service.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}
	return service.repo.ListByBook(ctx, bookID)
}

func (service *Service) ensureBook(ctx context.Context, bookID int64) error {
	exists, err := service.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Book")
	}
	return nil
}
