// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tracker_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/ctxutil"
	"github.com/taibuivan/khatmah/internal/platform/sec"
	"github.com/taibuivan/khatmah/internal/quran"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/readingtest"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/reading/tracker"
)

type fakeBookmarks struct {
	resolver *readingtest.Resolver
	err      error
}

func (f *fakeBookmarks) Save(ctx context.Context, ownerID string, position bookmark.Position) (*bookmark.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := quran.ValidateWithPage(position.UnitNumber, position.PositionInUnit, position.AbsolutePage); err != nil {
		return nil, err
	}

	page := f.resolver.Resolve(ctx, position.UnitNumber, position.PositionInUnit, position.AbsolutePage)
	return &bookmark.Bookmark{
		OwnerID:        ownerID,
		UnitNumber:     position.UnitNumber,
		PositionInUnit: position.PositionInUnit,
		AbsolutePage:   &page,
	}, nil
}

type fakePlans struct {
	recorded []plan.Progress
	err      error
}

func (f *fakePlans) RecordProgress(_ context.Context, ownerID string, progress plan.Progress) (*plan.Plan, error) {
	f.recorded = append(f.recorded, progress)
	if f.err != nil {
		return nil, f.err
	}
	return &plan.Plan{OwnerID: ownerID, Progress: progress}, nil
}

type fakeShared struct {
	recorded []plan.Progress
}

func (f *fakeShared) RecordProgress(_ context.Context, participant string, progress plan.Progress) (*sharedplan.SharedPlan, error) {
	f.recorded = append(f.recorded, progress)
	return &sharedplan.SharedPlan{UpdatedBy: participant, Progress: progress}, nil
}

type fixture struct {
	resolver  *readingtest.Resolver
	bookmarks *fakeBookmarks
	plans     *fakePlans
	shared    *fakeShared
	tracker   *tracker.Tracker
}

func newFixture() *fixture {
	resolver := readingtest.NewResolver(map[string]int{"18:10": 294})
	f := &fixture{
		resolver:  resolver,
		bookmarks: &fakeBookmarks{resolver: resolver},
		plans:     &fakePlans{},
		shared:    &fakeShared{},
	}
	f.tracker = tracker.New(f.bookmarks, f.plans, f.shared, readingtest.Logger())
	return f
}

func TestPageTurn_ResolvesOnceAndFansOut(t *testing.T) {
	f := newFixture()

	outcome, err := f.tracker.PageTurn(context.Background(), "u1", bookmark.Position{UnitNumber: 18, PositionInUnit: 10})
	require.NoError(t, err)

	want := plan.Progress{UnitNumber: 18, PositionInUnit: 10, AbsolutePage: 294}
	assert.Equal(t, 294, *outcome.Bookmark.AbsolutePage)
	assert.Equal(t, []plan.Progress{want}, f.plans.recorded)
	assert.Equal(t, []plan.Progress{want}, f.shared.recorded)
	assert.Equal(t, want, outcome.Plan.Progress)
	assert.Equal(t, "u1", outcome.SharedPlan.UpdatedBy)
	assert.Equal(t, 1, f.resolver.Lookups())
}

func TestPageTurn_KnownPageSkipsLookup(t *testing.T) {
	f := newFixture()
	page := 300

	_, err := f.tracker.PageTurn(context.Background(), "u1", bookmark.Position{UnitNumber: 18, PositionInUnit: 12, AbsolutePage: &page})
	require.NoError(t, err)

	assert.Equal(t, 0, f.resolver.Lookups())
	assert.Equal(t, 300, f.plans.recorded[0].AbsolutePage)
}

func TestPageTurn_BookmarkFailureStopsTurn(t *testing.T) {
	f := newFixture()

	_, err := f.tracker.PageTurn(context.Background(), "u1", bookmark.Position{UnitNumber: 115, PositionInUnit: 1})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	f.bookmarks.err = errors.New("local tier down")
	_, err = f.tracker.PageTurn(context.Background(), "u1", bookmark.Position{UnitNumber: 1, PositionInUnit: 1})
	assert.Error(t, err)

	assert.Empty(t, f.plans.recorded)
	assert.Empty(t, f.shared.recorded)
}

func TestPageTurn_PlanFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.plans.err = errors.New("local tier down")

	outcome, err := f.tracker.PageTurn(context.Background(), "u1", bookmark.Position{UnitNumber: 2, PositionInUnit: 1})
	require.NoError(t, err)

	assert.Nil(t, outcome.Plan)
	assert.NotNil(t, outcome.SharedPlan)
	assert.Equal(t, 2, *outcome.Bookmark.AbsolutePage)
}

func TestHandler_PageTurn(t *testing.T) {
	f := newFixture()
	router := tracker.NewHandler(f.tracker).Routes()

	t.Run("anonymous", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unit_number":18,"position_in_unit":10}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unit_number":0,"position_in_unit":10}`))
		request = request.WithContext(ctxutil.WithClaims(request.Context(), &sec.AuthClaims{UserID: "u1"}))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("turn", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unit_number":18,"position_in_unit":10}`))
		request = request.WithContext(ctxutil.WithClaims(request.Context(), &sec.AuthClaims{UserID: "u1"}))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data struct {
				Bookmark struct {
					AbsolutePage int `json:"absolute_page"`
				} `json:"bookmark"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, 294, body.Data.Bookmark.AbsolutePage)
	})
}
