// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pacing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/clock"
	requestutil "github.com/taibuivan/khatmah/internal/platform/request"
	"github.com/taibuivan/khatmah/internal/platform/respond"
	"github.com/taibuivan/khatmah/internal/quran"
)

// Handler serves pacing projections for arbitrary schedules.
type Handler struct {
	clock clock.Clock
}

// NewHandler constructs a pacing [Handler] reading "now" from clock.
func NewHandler(clock clock.Clock) *Handler {
	return &Handler{clock: clock}
}

// Routes returns the projection endpoint, mounted under /api/v1/pacing.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.project)
	return router
}

/*
GET /api/v1/pacing?start=&end=&page=&at=.

Description: Projects a schedule without storing anything. start and end are
RFC 3339 instants; page defaults to 1 and at to the server clock.

Response:
  - 200: Report
  - 400: Validation
*/
func (handler *Handler) project(writer http.ResponseWriter, request *http.Request) {
	start, err := requestutil.QueryTime(request, "start", true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	end, err := requestutil.QueryTime(request, "end", true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := requestutil.QueryInt(request, "page", 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !quran.ValidPage(page) {
		respond.Error(writer, request, apperr.ValidationError("Invalid query parameter",
			apperr.FieldError{Field: "page", Message: "Must be between 1 and 604"}))
		return
	}

	at, err := requestutil.QueryTime(request, "at", false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if at.IsZero() {
		at = handler.clock.Now()
	}

	pacer, err := New(start, end)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pacer.Report(page, at))
}
