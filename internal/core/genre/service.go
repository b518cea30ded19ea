// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/fold"
)

type Service struct {
	repo    Repository
	ranking RankingInvalidator
	logger  *slog.Logger
}

// NewService wires the genre service. ranking may be nil when no ranking cache is in play.
func NewService(repo Repository, ranking RankingInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		ranking: ranking,
		logger:  logger,
	}
}

func (service *Service) ListGenres(ctx context.Context, limit, offset int) ([]*Genre, int, error) {
	return service.repo.ListGenres(ctx, limit, offset)
}

func (service *Service) GetGenre(ctx context.Context, id int64) (*Genre, error) {
	genre, err := service.repo.GetGenre(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return genre, nil
}

// FindByName returns the genre whose name matches case-insensitively.
func (service *Service) FindByName(ctx context.Context, name string) (*Genre, error) {
	genre, err := service.repo.FindGenreByKey(ctx, fold.Key(name))
	if err != nil {
		return nil, notFound(err)
	}
	return genre, nil
}

/*
CreateGenre stores a new genre under the name as given.

Description: The folded key is looked up first for a precise Conflict; the
unique index on the key settles concurrent creators.
*/
func (service *Service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	genre, nameKey, err := fromName(name)
	if err != nil {
		return nil, err
	}

	if err := service.ensureFree(ctx, nameKey, 0); err != nil {
		return nil, err
	}

	if err := service.repo.CreateGenre(ctx, genre, nameKey); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.Int64("genre_id", genre.ID), slog.String("name", genre.Name))
	return genre, nil
}

// RenameGenre changes the display name. Renaming to a different casing of itself is allowed.
func (service *Service) RenameGenre(ctx context.Context, id int64, name string) (*Genre, error) {
	genre, nameKey, err := fromName(name)
	if err != nil {
		return nil, err
	}
	genre.ID = id

	if err := service.ensureFree(ctx, nameKey, id); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateGenre(ctx, genre, nameKey); err != nil {
		return nil, notFound(err)
	}

	service.invalidateRanking(ctx)
	service.logger.Info("genre_renamed", slog.Int64("genre_id", id), slog.String("name", genre.Name))
	return service.GetGenre(ctx, id)
}

func (service *Service) DeleteGenre(ctx context.Context, id int64) error {
	if err := service.repo.DeleteGenre(ctx, id); err != nil {
		return notFound(err)
	}

	service.invalidateRanking(ctx)
	service.logger.Warn("genre_deleted", slog.Int64("genre_id", id))
	return nil
}

// invalidateRanking runs after committed renames and deletes so top-rated
// results never show a genre name that no longer exists.
func (service *Service) invalidateRanking(ctx context.Context) {
	if service.ranking != nil {
		service.ranking.InvalidateRanking(ctx)
	}
}

// ensureFree fails with Conflict when another genre already owns nameKey.
func (service *Service) ensureFree(ctx context.Context, nameKey string, self int64) error {
	existing, err := service.repo.FindGenreByKey(ctx, nameKey)
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Conflict(MessageNameTaken)
	}
	return nil
}

func fromName(name string) (*Genre, string, error) {
	genre := &Genre{Name: strings.TrimSpace(name)}

	validator := &validate.Validator{}
	validator.Required(FieldName, genre.Name).MaxLen(FieldName, genre.Name, nameMaxLength)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}
	return genre, fold.Key(genre.Name), nil
}

func notFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Genre")
	}
	return err
}
