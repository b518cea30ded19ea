// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryBooks is an in-process [book.Repository] with reviews attached by id.
type memoryBooks struct {
	nextID  int64
	books   map[int64]*book.Book
	authors map[int64]bool
	genres  map[int64]string
	ratings map[int64][]int
	topHits int
}

func newMemoryBooks() *memoryBooks {
	return &memoryBooks{
		books:   map[int64]*book.Book{},
		authors: map[int64]bool{},
		genres:  map[int64]string{},
		ratings: map[int64][]int{},
	}
}

func (m *memoryBooks) ListBooks(_ context.Context, limit, offset int) ([]*book.Book, int, error) {
	out := []*book.Book{}
	for id := int64(1); id <= m.nextID; id++ {
		if b, ok := m.books[id]; ok {
			out = append(out, b)
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memoryBooks) GetBook(_ context.Context, id int64) (*book.Book, error) {
	stored, ok := m.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *memoryBooks) AuthorExists(_ context.Context, authorID int64) (bool, error) {
	return m.authors[authorID], nil
}

func (m *memoryBooks) store(b *book.Book, genreIDs []int64) error {
	for id, other := range m.books {
		if other.ISBN == b.ISBN && id != b.ID {
			return apperr.Conflict(book.MessageISBNTaken)
		}
	}
	refs := []book.GenreRef{}
	for _, genreID := range genreIDs {
		name, ok := m.genres[genreID]
		if !ok {
			return apperr.NotFound("Genre")
		}
		refs = append(refs, book.GenreRef{ID: genreID, Name: name})
	}
	stored := *b
	stored.Genres = refs
	m.books[b.ID] = &stored
	return nil
}

func (m *memoryBooks) CreateBook(_ context.Context, b *book.Book, genreIDs []int64) error {
	m.nextID++
	b.ID = m.nextID
	if err := m.store(b, genreIDs); err != nil {
		m.nextID--
		return err
	}
	return nil
}

func (m *memoryBooks) UpdateBook(_ context.Context, b *book.Book, genreIDs []int64) error {
	if _, ok := m.books[b.ID]; !ok {
		return dberr.ErrNotFound
	}
	return m.store(b, genreIDs)
}

func (m *memoryBooks) DeleteBook(_ context.Context, id int64) error {
	if _, ok := m.books[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.books, id)
	delete(m.ratings, id)
	return nil
}

func (m *memoryBooks) TopRated(_ context.Context, limit int) ([]*book.RankedBook, error) {
	m.topHits++
	ranked := []*book.RankedBook{}
	for id, ratings := range m.ratings {
		if len(ratings) == 0 {
			continue
		}
		sum := 0
		for _, rating := range ratings {
			sum += rating
		}
		ranked = append(ranked, &book.RankedBook{
			Book:          *m.books[id],
			AverageRating: float64(sum) / float64(len(ratings)),
			ReviewCount:   len(ratings),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// memoryCache is a [book.RankingCache] that can be told to fail.
type memoryCache struct {
	entries       map[int][]*book.RankedBook
	err           error
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[int][]*book.RankedBook{}}
}

func (c *memoryCache) Get(_ context.Context, limit int) ([]*book.RankedBook, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	entry, ok := c.entries[limit]
	return entry, ok, nil
}

func (c *memoryCache) Set(_ context.Context, limit int, books []*book.RankedBook) error {
	if c.err != nil {
		return c.err
	}
	c.entries[limit] = books
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.invalidations++
	c.entries = map[int][]*book.RankedBook{}
	return c.err
}
