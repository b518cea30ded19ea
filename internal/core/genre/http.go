// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
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
	router.Get("/", handler.listGenres)
	router.Get("/lookup", handler.lookupGenre)
	router.Get("/{id}", handler.getGenre)

	// Authenticated writes
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/", handler.createGenre)
		protected.Put("/{id}", handler.renameGenre)
		protected.Delete("/{id}", handler.deleteGenre)
	})
}

type genreRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	genres, total, err := handler.service.ListGenres(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(paginationParams, total))
}

func (handler *Handler) lookupGenre(writer http.ResponseWriter, request *http.Request) {
	name := request.URL.Query().Get(FieldName)
	if name == "" {
		respond.Error(writer, request, validate.RequiredError(FieldName, "This field is required"))
		return
	}

	genre, err := handler.service.FindByName(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.GetGenre(request.Context(), genreID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input genreRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.CreateGenre(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, genre)
}

func (handler *Handler) renameGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input genreRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.RenameGenre(request.Context(), genreID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteGenre(request.Context(), genreID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
