// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/genre"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryGenres enforces key uniqueness the way the unique index does.
type memoryGenres struct {
	nextID int64
	genres map[int64]*genre.Genre
	keys   map[int64]string
}

func newMemoryGenres() *memoryGenres {
	return &memoryGenres{genres: map[int64]*genre.Genre{}, keys: map[int64]string{}}
}

func (m *memoryGenres) ListGenres(_ context.Context, limit, offset int) ([]*genre.Genre, int, error) {
	out := []*genre.Genre{}
	for id := int64(1); id <= m.nextID; id++ {
		if g, ok := m.genres[id]; ok {
			out = append(out, g)
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

func (m *memoryGenres) GetGenre(_ context.Context, id int64) (*genre.Genre, error) {
	if g, ok := m.genres[id]; ok {
		return g, nil
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryGenres) FindGenreByKey(_ context.Context, nameKey string) (*genre.Genre, error) {
	for id, key := range m.keys {
		if key == nameKey {
			return m.genres[id], nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryGenres) CreateGenre(_ context.Context, g *genre.Genre, nameKey string) error {
	for _, key := range m.keys {
		if key == nameKey {
			return apperr.Conflict(genre.MessageNameTaken)
		}
	}
	m.nextID++
	g.ID = m.nextID
	m.genres[g.ID] = g
	m.keys[g.ID] = nameKey
	return nil
}

func (m *memoryGenres) UpdateGenre(_ context.Context, g *genre.Genre, nameKey string) error {
	if _, ok := m.genres[g.ID]; !ok {
		return dberr.ErrNotFound
	}
	m.genres[g.ID] = g
	m.keys[g.ID] = nameKey
	return nil
}

func (m *memoryGenres) DeleteGenre(_ context.Context, id int64) error {
	if _, ok := m.genres[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.genres, id)
	delete(m.keys, id)
	return nil
}

/*
TestService_CreateGenre_CaseInsensitive treats casing variants as the same genre
while keeping the first display form.
*/
func TestService_CreateGenre_CaseInsensitive(t *testing.T) {
	service := genre.NewService(newMemoryGenres(), nil, discardLogger)
	ctx := context.Background()

	created, err := service.CreateGenre(ctx, "Sci-Fi")
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", created.Name)

	for _, variant := range []string{"sci-fi", "SCI-FI", "  Sci-Fi  ", "sci-FI"} {
		_, err := service.CreateGenre(ctx, variant)
		require.True(t, apperr.HasCode(err, apperr.CodeConflict), variant)
		assert.Equal(t, genre.MessageNameTaken, err.Error())
	}

	found, err := service.FindByName(ctx, "SCI-fi")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.CreateGenre(ctx, "  ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_RenameGenre(t *testing.T) {
	service := genre.NewService(newMemoryGenres(), nil, discardLogger)
	ctx := context.Background()

	fantasy, err := service.CreateGenre(ctx, "fantasy")
	require.NoError(t, err)
	_, err = service.CreateGenre(ctx, "Horror")
	require.NoError(t, err)

	renamed, err := service.RenameGenre(ctx, fantasy.ID, "Fantasy")
	require.NoError(t, err, "recasing a genre's own name is allowed")
	assert.Equal(t, "Fantasy", renamed.Name)

	_, err = service.RenameGenre(ctx, fantasy.ID, "horror")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.RenameGenre(ctx, 42, "Mystery")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, service.DeleteGenre(ctx, fantasy.ID))
	_, err = service.GetGenre(ctx, fantasy.ID)
	assert.Equal(t, "Genre not found", err.Error())
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateRanking(context.Context) {
	c.calls++
}

/*
TestService_GenreChanges_InvalidateRanking drops cached rankings only when a
rename or delete actually committed.
*/
func TestService_GenreChanges_InvalidateRanking(t *testing.T) {
	ranking := &countingInvalidator{}
	service := genre.NewService(newMemoryGenres(), ranking, discardLogger)
	ctx := context.Background()

	fantasy, err := service.CreateGenre(ctx, "Fantasy")
	require.NoError(t, err)
	_, err = service.CreateGenre(ctx, "Horror")
	require.NoError(t, err)
	assert.Zero(t, ranking.calls, "new genres carry no books yet")

	_, err = service.RenameGenre(ctx, fantasy.ID, "High Fantasy")
	require.NoError(t, err)
	assert.Equal(t, 1, ranking.calls)

	_, err = service.RenameGenre(ctx, fantasy.ID, "horror")
	require.True(t, apperr.HasCode(err, apperr.CodeConflict))
	_, err = service.RenameGenre(ctx, 42, "Mystery")
	require.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, 1, ranking.calls)

	require.NoError(t, service.DeleteGenre(ctx, fantasy.ID))
	assert.Equal(t, 2, ranking.calls)

	require.Error(t, service.DeleteGenre(ctx, fantasy.ID))
	assert.Equal(t, 2, ranking.calls)
}

func TestHandler_Genres(t *testing.T) {
	router := chi.NewRouter()
	genre.NewHandler(genre.NewService(newMemoryGenres(), nil, discardLogger)).RegisterRoutes(router)
	withPrincipal := func(request *http.Request) *http.Request {
		return request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.Principal{UserID: 1, Username: "alice"}))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Sci-Fi"}`)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Sci-Fi"}`))))
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":1,"name":"Sci-Fi","book_count":0}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"sci-fi"}`))))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeConflict)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/lookup?name=SCI-FI", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/lookup", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?skip=0&limit=5", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"limit":5`)
}
