// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	requestutil "github.com/taibuivan/khatmah/internal/platform/request"
	"github.com/taibuivan/khatmah/internal/platform/respond"
)

// Handler implements the HTTP layer for personal plans.
type Handler struct {
	planService *Service
}

// NewHandler constructs a new plan [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{planService: service}
}

// Routes returns the plan endpoints, mounted under /api/v1/reading/plans.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/active", handler.active)
	router.Delete("/{id}", handler.delete)

	return router
}

// createRequest is the body of a new plan.
type createRequest struct {
	DurationDays int `json:"duration_days" validate:"required,min=1,max=3650"`
}

/*
POST /api/v1/reading/plans.

Description: Starts a new plan and replaces the previous one.

Response:
  - 201: View
  - 400: ErrInvalidJSON/Validation
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.planService.Create(request.Context(), ownerID, input.DurationDays)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

/*
GET /api/v1/reading/plans/active.

Response:
  - 200: View
  - 404: ErrNotFound
*/
func (handler *Handler) active(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.planService.Active(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
DELETE /api/v1/reading/plans/{id}?confirm=true.

Description: Irreversible. Rejected unless confirm=true is passed.

Response:
  - 204: deleted
  - 400: confirmation missing
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !requestutil.QueryBool(request, "confirm") {
		respond.Error(writer, request, ConfirmationRequired())
		return
	}

	if err := handler.planService.Delete(request.Context(), ownerID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// ConfirmationRequired is returned by delete endpoints called without confirm=true.
func ConfirmationRequired() error {
	return apperr.ValidationError("Deleting a plan cannot be undone",
		apperr.FieldError{Field: "confirm", Message: "Must be true"})
}
