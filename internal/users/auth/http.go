// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration and login).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /token    : Authenticates and returns a bearer token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/token", handler.login)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /auth/register

Response:
  - 201: User: Created user profile (no hash)
  - 400: Validation failure, or username/email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and issues an access token.

POST /auth/token

Description: Accepts the OAuth2 password form (application/x-www-form-urlencoded)
or an equivalent JSON body. The response is the bare OAuth2 token object.

Response:
  - 200: {access_token, token_type}
  - 401: Incorrect username or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeLogin(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", "no-store")
	respond.JSON(writer, http.StatusOK, token)
}

// maxLoginFormBytes caps form-encoded login bodies; credentials are tiny.
const maxLoginFormBytes = 64 << 10

func decodeLogin(writer http.ResponseWriter, request *http.Request) (loginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type"))

	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		request.Body = http.MaxBytesReader(writer, request.Body, maxLoginFormBytes)

		// ParseForm ignores multipart bodies, so they need their own parser.
		parse := request.ParseForm
		if mediaType == "multipart/form-data" {
			parse = func() error { return request.ParseMultipartForm(maxLoginFormBytes) }
		}
		if err := parse(); err != nil {
			return loginRequest{}, validate.ErrInvalidJSON
		}
		return loginRequest{
			Username: request.PostFormValue(FieldUsername),
			Password: request.PostFormValue(FieldPassword),
		}, nil
	}

	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		return loginRequest{}, err
	}
	return input, nil
}
