// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListAuthors(ctx context.Context, limit, offset int) ([]*Author, int, error) {
	return service.repo.ListAuthors(ctx, limit, offset)
}

func (service *Service) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	author, err := service.repo.GetAuthor(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return author, nil
}

func (service *Service) CreateAuthor(ctx context.Context, input Input) (*Author, error) {
	author, err := fromInput(input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.CreateAuthor(ctx, author); err != nil {
		return nil, err
	}

	service.logger.Info("author_created", slog.Int64("author_id", author.ID), slog.String("name", author.Name))
	return author, nil
}

// UpdateAuthor replaces every mutable field of the author.
func (service *Service) UpdateAuthor(ctx context.Context, id int64, input Input) (*Author, error) {
	author, err := fromInput(input)
	if err != nil {
		return nil, err
	}
	author.ID = id

	if err := service.repo.UpdateAuthor(ctx, author); err != nil {
		return nil, notFound(err)
	}

	service.logger.Info("author_updated", slog.Int64("author_id", author.ID))
	return author, nil
}

func (service *Service) DeleteAuthor(ctx context.Context, id int64) error {
	if err := service.repo.DeleteAuthor(ctx, id); err != nil {
		return notFound(err)
	}

	service.logger.Warn("author_deleted", slog.Int64("author_id", id))
	return nil
}

func fromInput(input Input) (*Author, error) {
	author := &Author{Name: strings.TrimSpace(input.Name), Bio: input.Bio}

	validator := &validate.Validator{}
	validator.Required(FieldName, author.Name).MaxLen(FieldName, author.Name, nameMaxLength)
	validator.MaxLen(FieldBio, pointer.Val(author.Bio), bioMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return author, nil
}

func notFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Author")
	}
	return err
}
