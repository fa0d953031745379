// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/api"
	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/platform/config"
	"github.com/taibuivan/khatmah/internal/platform/sec"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
	"github.com/taibuivan/khatmah/internal/reading/tracker"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) { return nil, errors.New("invalid") }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadiness(t *testing.T) {
	healthy := api.DependencyCheck{Name: "postgres", Probe: func(context.Context) error { return nil }}
	broken := api.DependencyCheck{Name: "local_cache", Probe: func(context.Context) error { return errors.New("dial tcp: refused") }}

	tests := []struct {
		name       string
		checks     []api.DependencyCheck
		wantStatus int
		wantState  string
	}{
		{"all healthy", []api.DependencyCheck{healthy}, http.StatusOK, "ready"},
		{"one tier down", []api.DependencyCheck{healthy, broken}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.checks, discard())

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name string `json:"name"`
						OK   bool   `json:"ok"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Data.Status)
			assert.Len(t, body.Data.Checks, len(tt.checks))
		})
	}
}

func TestServerRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{ServerPort: "0", Environment: "test"}
	liveness, readiness := api.NewHealthHandlers(nil, discard())
	now := clock.Func(func() time.Time { return time.Date(2026, 1, 16, 6, 0, 0, 0, time.UTC) })

	server := api.NewServer(ctx, cfg, discard(), rejectAll{}, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Bookmark:   bookmark.NewHandler(nil),
		PageTurn:   tracker.NewHandler(nil),
		Plan:       plan.NewHandler(nil),
		SharedPlan: sharedplan.NewHandler(nil),
		Pacing:     pacing.NewHandler(now),
	})

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/pacing?start=2026-01-01T06:00:00Z&end=2026-01-31T06:00:00Z", http.StatusOK},
		{http.MethodGet, "/api/v1/reading/bookmark", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/reading/page-turn", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/reading/plans/active", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/reading/shared-plans/active", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
