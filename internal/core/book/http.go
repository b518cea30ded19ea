// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listBooks)
	router.Get("/top-rated", handler.topRated)
	router.Get("/top-rated/", handler.topRated)
	router.Get("/{id}", handler.getBook)

	// Authenticated writes
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/", handler.createBook)
		protected.Put("/{id}", handler.updateBook)
		protected.Delete("/{id}", handler.deleteBook)
	})
}

type bookRequest struct {
	Title           string  `json:"title"`
	PublicationYear int     `json:"publication_year"`
	ISBN            string  `json:"isbn"`
	AuthorID        int64   `json:"author_id"`
	GenreIDs        []int64 `json:"genre_ids"`
}

func (req bookRequest) toInput() Input {
	return Input{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		ISBN:            req.ISBN,
		AuthorID:        req.AuthorID,
		GenreIDs:        req.GenreIDs,
	}
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	books, total, err := handler.service.ListBooks(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams, total))
}

func (handler *Handler) topRated(writer http.ResponseWriter, request *http.Request) {
	limit, err := requestutil.QueryInt(request, FieldLimit, DefaultRankingLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ranked, err := handler.service.TopRated(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ranked)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input bookRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.CreateBook(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, book)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input bookRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdateBook(request.Context(), bookID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
