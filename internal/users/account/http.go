// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// Handler exposes the current user's profile.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /users.
//
// # Endpoints
//   - GET   /me : Current user.
//   - PATCH /me : Update email and/or password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.getMe)
		protected.Patch("/me", handler.updateMe)
	})

	return router
}

type updateProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

/*
GetMe returns the authenticated user.

GET /users/me

Response:
  - 200: User
  - 401: Unauthorized
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), principal.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe rotates the authenticated user's email and/or password.

PATCH /users/me

Response:
  - 200: User
  - 400: Validation failure or email already registered
  - 401: Unauthorized
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), principal.UserID, UpdateProfileInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
