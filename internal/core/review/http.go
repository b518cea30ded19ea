// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/book/{book_id}", handler.listByBook)

	router.With(middleware.RequireAuth).Post("/", handler.createReview)
}

// reviewRequest has no user_id; the reviewer comes from the token.
type reviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
	BookID  int64   `json:"book_id"`
}

func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), principal.UserID, Input{
		Rating:  input.Rating,
		Comment: input.Comment,
		BookID:  input.BookID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) listByBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "book_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviews, err := handler.service.ListByBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reviews)
}
