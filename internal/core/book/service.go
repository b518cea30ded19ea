// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// Service implements book use cases on top of a [Repository] and an optional [RankingCache].
type Service struct {
	repo   Repository
	cache  RankingCache
	logger *slog.Logger
	now    func() time.Time
}

// ServiceOption customizes a [Service].
type ServiceOption func(*Service)

// WithCache enables ranking caching. A nil cache leaves it disabled.
func WithCache(cache RankingCache) ServiceOption {
	return func(service *Service) {
		service.cache = cache
	}
}

// WithClock overrides the clock used for the publication year bound.
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) {
		if now != nil {
			service.now = now
		}
	}
}

func NewService(repo Repository, logger *slog.Logger, opts ...ServiceOption) *Service {
	service := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (service *Service) ListBooks(ctx context.Context, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListBooks(ctx, limit, offset)
}

func (service *Service) GetBook(ctx context.Context, id int64) (*Book, error) {
	book, err := service.repo.GetBook(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return book, nil
}

// Exists reports whether the book is present. It serves callers that only need the reference check.
func (service *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := service.repo.GetBook(ctx, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

/*
CreateBook validates the input, confirms the author, and persists the book.

Description: The author check runs before the insert so that the common
case returns a precise NotFound. The foreign key still guards the race.
*/
func (service *Service) CreateBook(ctx context.Context, input Input) (*Book, error) {
	book, genreIDs, err := service.fromInput(input)
	if err != nil {
		return nil, err
	}

	if err := service.ensureAuthor(ctx, book.AuthorID); err != nil {
		return nil, err
	}

	if err := service.repo.CreateBook(ctx, book, genreIDs); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.Int64("book_id", book.ID),
		slog.String("isbn", book.ISBN),
		slog.Int64("author_id", book.AuthorID),
	)
	return service.hydrate(ctx, book)
}

// UpdateBook replaces every mutable field and the genre set.
func (service *Service) UpdateBook(ctx context.Context, id int64, input Input) (*Book, error) {
	book, genreIDs, err := service.fromInput(input)
	if err != nil {
		return nil, err
	}
	book.ID = id

	if err := service.ensureAuthor(ctx, book.AuthorID); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateBook(ctx, book, genreIDs); err != nil {
		return nil, notFound(err)
	}

	service.logger.Info("book_updated", slog.Int64("book_id", book.ID))
	service.InvalidateRanking(ctx)
	return service.hydrate(ctx, book)
}

func (service *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := service.repo.DeleteBook(ctx, id); err != nil {
		return notFound(err)
	}

	service.logger.Warn("book_deleted", slog.Int64("book_id", id))
	service.InvalidateRanking(ctx)
	return nil
}

/*
TopRated returns the highest rated books.

Description: limit is clamped to [1, MaxRankingLimit]. Cache failures are
logged and fall through to storage.
*/
func (service *Service) TopRated(ctx context.Context, limit int) ([]*RankedBook, error) {
	limit = ClampRankingLimit(limit)

	if service.cache != nil {
		cached, ok, err := service.cache.Get(ctx, limit)
		if err != nil {
			service.logger.Warn("ranking_cache_read_failed", slog.Any("error", err))
		}
		if ok {
			return cached, nil
		}
	}

	ranked, err := service.repo.TopRated(ctx, limit)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, limit, ranked); err != nil {
			service.logger.Warn("ranking_cache_write_failed", slog.Any("error", err))
		}
	}
	return ranked, nil
}

// InvalidateRanking drops cached rankings. Reviews call it after every write.
func (service *Service) InvalidateRanking(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx); err != nil {
		service.logger.Warn("ranking_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) ensureAuthor(ctx context.Context, authorID int64) error {
	exists, err := service.repo.AuthorExists(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Author")
	}
	return nil
}

// hydrate re-reads the book so the response carries genre names.
func (service *Service) hydrate(ctx context.Context, book *Book) (*Book, error) {
	stored, err := service.repo.GetBook(ctx, book.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return stored, nil
}

// fromInput maps and validates the writable fields. Duplicate genre ids collapse to one link.
func (service *Service) fromInput(input Input) (*Book, []int64, error) {
	book := &Book{
		Title:           strings.TrimSpace(input.Title),
		PublicationYear: input.PublicationYear,
		ISBN:            strings.TrimSpace(input.ISBN),
		AuthorID:        input.AuthorID,
	}

	currentYear := service.now().Year()

	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, titleMaxLength)
	validator.Custom(FieldPublicationYear, book.PublicationYear < 1, "Must be a positive year")
	validator.Custom(FieldPublicationYear, book.PublicationYear > currentYear, "Must not be in the future")
	validator.Match(FieldISBN, book.ISBN, isbnPattern, "Must match the pattern NNN-NNNNNNNNNN")
	validator.Positive(FieldAuthorID, book.AuthorID)

	genreIDs := make([]int64, 0, len(input.GenreIDs))
	seen := make(map[int64]bool, len(input.GenreIDs))
	for _, genreID := range input.GenreIDs {
		if genreID <= 0 {
			validator.Custom(FieldGenreIDs, true, "Must contain only positive ids")
			break
		}
		if !seen[genreID] {
			seen[genreID] = true
			genreIDs = append(genreIDs, genreID)
		}
	}

	if err := validator.Err(); err != nil {
		return nil, nil, err
	}
	return book, genreIDs, nil
}

func notFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Book")
	}
	return err
}
