// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sharedplan

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/khatmah/internal/platform/request"
	"github.com/taibuivan/khatmah/internal/platform/respond"
	"github.com/taibuivan/khatmah/internal/reading/plan"
)

// Handler implements the HTTP layer for shared plans.
type Handler struct {
	sharedPlanService *Service
}

// NewHandler constructs a new shared plan [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{sharedPlanService: service}
}

// Routes returns the shared plan endpoints, mounted under /api/v1/reading/shared-plans.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/active", handler.active)
	router.Delete("/{id}", handler.delete)

	return router
}

type createRequest struct {
	PartnerID    string `json:"partner_id" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=3650"`
}

/*
POST /api/v1/reading/shared-plans.

Response:
  - 201: View
  - 400: ErrInvalidJSON/Validation
  - 403: not linked with partner_id
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.sharedPlanService.Create(request.Context(), userID, input.PartnerID, input.DurationDays)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

/*
GET /api/v1/reading/shared-plans/active.

Response:
  - 200: View
  - 404: ErrNotFound
*/
func (handler *Handler) active(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.sharedPlanService.Active(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
DELETE /api/v1/reading/shared-plans/{id}?confirm=true.

Description: Removes the plan for both partners.
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !requestutil.QueryBool(request, "confirm") {
		respond.Error(writer, request, plan.ConfirmationRequired())
		return
	}

	if err := handler.sharedPlanService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
