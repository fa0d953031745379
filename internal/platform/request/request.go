// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/ctxutil"
	"github.com/taibuivan/khatmah/internal/platform/validate"
)

// maxBodyBytes caps request bodies. Reading payloads are a few hundred bytes.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body, decodes it into target and runs the
struct-tag validation rules on it.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, a VALIDATION_ERROR if
    the payload breaks its tags, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return validate.Struct(target)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryBool reports whether the query parameter is present and parses as true.
*/
func QueryBool(request *http.Request, name string) bool {
	value, err := strconv.ParseBool(request.URL.Query().Get(name))
	return err == nil && value
}

/*
QueryInt parses an integer query parameter, returning a VALIDATION_ERROR on
malformed input and fallback when absent.
*/
func QueryInt(request *http.Request, name string, fallback int) (int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationError("Invalid query parameter",
			apperr.FieldError{Field: name, Message: "must be an integer"})
	}
	return value, nil
}

/*
QueryTime parses an RFC 3339 query parameter.

Returns:
  - time.Time: the parsed instant (zero when the parameter is absent and not required)
  - error: VALIDATION_ERROR on malformed or missing required input
*/
func QueryTime(request *http.Request, name string, required bool) (time.Time, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		if required {
			return time.Time{}, apperr.ValidationError("Missing query parameter",
				apperr.FieldError{Field: name, Message: "is required"})
		}
		return time.Time{}, nil
	}

	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.ValidationError("Invalid query parameter",
			apperr.FieldError{Field: name, Message: "must be an RFC 3339 timestamp"})
	}
	return value, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user. Reading
records are owned by this id.

Returns:
  - string: User ID from the verified token
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	owner := ctxutil.OwnerID(request.Context())
	if owner == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return owner, nil
}
