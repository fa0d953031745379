// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracker

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/khatmah/internal/platform/request"
	"github.com/taibuivan/khatmah/internal/platform/respond"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
)

// Handler implements the page-turn endpoint.
type Handler struct {
	tracker *Tracker
}

// NewHandler constructs a new tracker [Handler].
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// Routes returns the page-turn endpoint, mounted under /api/v1/reading/page-turn.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.turn)
	return router
}

type turnRequest struct {
	UnitNumber     int    `json:"unit_number"      validate:"required,min=1,max=114"`
	UnitName       string `json:"unit_name"        validate:"max=100"`
	PositionInUnit int    `json:"position_in_unit" validate:"required,min=1"`
	AbsolutePage   *int   `json:"absolute_page"    validate:"omitempty,min=1,max=604"`
}

/*
POST /api/v1/reading/page-turn.

Response:
  - 200: Outcome
  - 400: ErrInvalidJSON/Validation
*/
func (handler *Handler) turn(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input turnRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.tracker.PageTurn(request.Context(), ownerID, bookmark.Position{
		UnitNumber:     input.UnitNumber,
		UnitName:       input.UnitName,
		PositionInUnit: input.PositionInUnit,
		AbsolutePage:   input.AbsolutePage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, outcome)
}
