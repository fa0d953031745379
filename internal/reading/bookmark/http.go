// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	requestutil "github.com/taibuivan/khatmah/internal/platform/request"
	"github.com/taibuivan/khatmah/internal/platform/respond"
)

// Handler implements the HTTP layer for bookmarks.
type Handler struct {
	bookmarkService *Service
}

// NewHandler constructs a new bookmark [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookmarkService: service}
}

// Routes returns the bookmark endpoints, mounted under /api/v1/reading/bookmark.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.load)
	router.Put("/", handler.save)
	router.Post("/sync", handler.sync)

	return router
}

/*
GET /api/v1/reading/bookmark.

Description: Returns the local-tier bookmark and schedules a background
reconcile with the durable tier. On a local miss the tiers are reconciled
before answering.

Response:
  - 200: Bookmark
  - 401: ErrUnauthorized
  - 404: ErrNotFound: the reader has never saved a position
*/
func (handler *Handler) load(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.bookmarkService.Load(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if bookmark == nil {
		respond.Error(writer, request, apperr.NotFound("Bookmark"))
		return
	}

	respond.OK(writer, bookmark)
}

/*
POST /api/v1/reading/bookmark/sync.

Description: Reconciles both tiers now and returns the winner.

Response:
  - 200: Bookmark
  - 404: ErrNotFound: neither tier has a record
*/
func (handler *Handler) sync(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.bookmarkService.Sync(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if bookmark == nil {
		respond.Error(writer, request, apperr.NotFound("Bookmark"))
		return
	}

	respond.OK(writer, bookmark)
}

// saveRequest is the whole bookmark as the client knows it.
type saveRequest struct {
	UnitNumber     int    `json:"unit_number"      validate:"required,min=1,max=114"`
	UnitName       string `json:"unit_name"        validate:"max=100"`
	PositionInUnit int    `json:"position_in_unit" validate:"required,min=1"`
	AbsolutePage   *int   `json:"absolute_page"    validate:"omitempty,min=1,max=604"`
}

/*
PUT /api/v1/reading/bookmark.

Description: Replaces the bookmark. The local tier is written before the
response; the durable tier follows in the background.

Request:
  - body: saveRequest

Response:
  - 200: Bookmark
  - 400: ErrInvalidJSON/Validation
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.bookmarkService.Save(request.Context(), ownerID, Position{
		UnitNumber:     input.UnitNumber,
		UnitName:       input.UnitName,
		PositionInUnit: input.PositionInUnit,
		AbsolutePage:   input.AbsolutePage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmark)
}
