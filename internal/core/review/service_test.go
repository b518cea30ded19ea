// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/review"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type memoryReviews struct {
	nextID  int64
	reviews []*review.Review
}

func (m *memoryReviews) CreateReview(_ context.Context, r *review.Review) error {
	m.nextID++
	r.ID = m.nextID
	clone := *r
	m.reviews = append(m.reviews, &clone)
	return nil
}

func (m *memoryReviews) ListByBook(_ context.Context, bookID int64) ([]*review.Review, error) {
	out := []*review.Review{}
	for _, r := range m.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}

type knownBooks struct {
	ids map[int64]bool
	err error
}

func (k knownBooks) Exists(_ context.Context, bookID int64) (bool, error) {
	return k.ids[bookID], k.err
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateRanking(context.Context) {
	c.calls++
}

func newService(books knownBooks) (*memoryReviews, *countingInvalidator, *review.Service) {
	repo := &memoryReviews{}
	ranking := &countingInvalidator{}
	return repo, ranking, review.NewService(repo, books, ranking, discardLogger)
}

/*
TestService_CreateReview_Rating rejects ratings outside 1..5 before touching storage.
*/
func TestService_CreateReview_Rating(t *testing.T) {
	tests := []struct {
		name   string
		rating int
		valid  bool
	}{
		{name: "lower bound", rating: 1, valid: true},
		{name: "upper bound", rating: 5, valid: true},
		{name: "zero", rating: 0},
		{name: "six", rating: 6},
		{name: "negative", rating: -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, ranking, service := newService(knownBooks{ids: map[int64]bool{1: true}})

			created, err := service.CreateReview(context.Background(), 7, review.Input{Rating: tc.rating, BookID: 1})
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, int64(7), created.UserID)
				assert.Equal(t, 1, ranking.calls)
				return
			}

			require.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, review.FieldRating, apperr.As(err).Details[0].Field)
			assert.Empty(t, repo.reviews)
			assert.Zero(t, ranking.calls)
		})
	}
}

func TestService_CreateReview_Comment(t *testing.T) {
	repo, _, service := newService(knownBooks{ids: map[int64]bool{1: true}})

	_, err := service.CreateReview(context.Background(), 1, review.Input{Rating: 3, BookID: 1})
	require.NoError(t, err, "comment is optional")

	_, err = service.CreateReview(context.Background(), 1, review.Input{Rating: 3, BookID: 1, Comment: pointer.To(strings.Repeat("x", 5001))})
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, review.FieldComment, apperr.As(err).Details[0].Field)
	assert.Len(t, repo.reviews, 1)
}

func TestService_CreateReview_UnknownBook(t *testing.T) {
	repo, ranking, service := newService(knownBooks{ids: map[int64]bool{}})

	_, err := service.CreateReview(context.Background(), 1, review.Input{Rating: 3, BookID: 42})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Empty(t, repo.reviews)
	assert.Zero(t, ranking.calls)
}

func TestService_CreateReview_StorageFailure(t *testing.T) {
	_, _, service := newService(knownBooks{err: apperr.Internal(errors.New("connection reset"))})

	_, err := service.CreateReview(context.Background(), 1, review.Input{Rating: 3, BookID: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestService_ListByBook distinguishes an unknown book from a book with no reviews.
*/
func TestService_ListByBook(t *testing.T) {
	_, _, service := newService(knownBooks{ids: map[int64]bool{1: true, 2: true}})
	_, err := service.CreateReview(context.Background(), 1, review.Input{Rating: 4, BookID: 1, Comment: pointer.To("Great")})
	require.NoError(t, err)

	reviews, err := service.ListByBook(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great", *reviews[0].Comment)

	reviews, err = service.ListByBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = service.ListByBook(context.Background(), 3)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestHandler_CreateReview takes the reviewer from the principal, never from the body.
*/
func TestHandler_CreateReview(t *testing.T) {
	repo, _, service := newService(knownBooks{ids: map[int64]bool{1: true}})
	router := chi.NewRouter()
	review.NewHandler(service).RegisterRoutes(router)

	body := `{"rating":5,"book_id":1,"user_id":99}`

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.Principal{UserID: 3, Username: "alice"}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	require.Len(t, repo.reviews, 1)
	assert.Equal(t, int64(3), repo.reviews[0].UserID)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/book/1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload struct {
		Data []review.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, 5, payload.Data[0].Rating)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/book/8", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
