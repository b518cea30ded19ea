// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IntID parses a named URL parameter as a positive integer identifier.

Returns:
  - int64: The parsed identifier
  - error: apperr.ValidationError if the parameter is not a positive integer
*/
func IntID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.ValidationError("Invalid identifier",
			apperr.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}

/*
QueryInt parses an optional integer query parameter, falling back to def when absent.

Returns:
  - error: apperr.ValidationError if the parameter is present but not an integer
*/
func QueryInt(request *http.Request, name string, def int) (int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationError("Invalid query parameter",
			apperr.FieldError{Field: name, Message: "must be an integer"})
	}
	return value, nil
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated user
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the resolved principal
	principal := ctxutil.GetPrincipal(request.Context())

	// If the user is not authenticated, return an error
	if principal == nil {
		return nil, apperr.Unauthorized(apperr.MessageInvalidCredentials)
	}

	return principal, nil
}
