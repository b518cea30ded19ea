// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

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
	router.Get("/", handler.listAuthors)
	router.Get("/{id}", handler.getAuthor)

	// Authenticated writes
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/", handler.createAuthor)
		protected.Put("/{id}", handler.updateAuthor)
		protected.Delete("/{id}", handler.deleteAuthor)
	})
}

type authorRequest struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio"`
}

func (req authorRequest) toInput() Input {
	return Input{Name: req.Name, Bio: req.Bio}
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	authors, total, err := handler.service.ListAuthors(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, authors, pagination.NewMeta(paginationParams, total))
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.GetAuthor(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input authorRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.CreateAuthor(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input authorRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.UpdateAuthor(request.Context(), authorID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAuthor(request.Context(), authorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
