// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pacing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
)

const day = 24 * time.Hour

var start = time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)

func thirtyDayPlan(t *testing.T) pacing.Pacer {
	t.Helper()
	pacer, err := pacing.New(start, start.Add(30*day))
	require.NoError(t, err)
	return pacer
}

func TestNew_RejectsEmptySchedule(t *testing.T) {
	_, err := pacing.New(start, start)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = pacing.New(start, start.Add(-day))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestThirtyDayPlan_OnTrackAtMidpoint(t *testing.T) {
	pacer := thirtyDayPlan(t)
	now := start.Add(15 * day)

	assert.Equal(t, 30, pacer.TotalDays())
	assert.Equal(t, 21, pacer.DailyQuota())
	assert.Equal(t, 302, pacer.ExpectedPage(now))
	assert.Equal(t, pacing.Status{Kind: pacing.StatusOnTrack}, pacer.Status(302, now))
	assert.Equal(t, 21, pacer.DailyGoal(302, now))
}

func TestThirtyDayPlan_BehindAtDayTwenty(t *testing.T) {
	pacer := thirtyDayPlan(t)
	now := start.Add(20 * day)

	assert.Equal(t, 402, pacer.ExpectedPage(now))
	assert.Equal(t, pacing.Status{Kind: pacing.StatusBehind, Magnitude: 202}, pacer.Status(200, now))

	goal := pacer.DailyGoal(200, now)
	assert.Equal(t, 222, goal)
	assert.Greater(t, goal, pacer.DailyQuota())
}

func TestExpectedPage_Bounds(t *testing.T) {
	pacer := thirtyDayPlan(t)

	assert.Equal(t, 0, pacer.ExpectedPage(start.Add(-time.Hour)))
	assert.Equal(t, 0, pacer.ExpectedPage(start))
	assert.Equal(t, 604, pacer.ExpectedPage(start.Add(30*day)))
	assert.Equal(t, 604, pacer.ExpectedPage(start.Add(90*day)))
}

func TestStatus_JustStarting(t *testing.T) {
	pacer := thirtyDayPlan(t)
	assert.Equal(t, pacing.StatusJustStarting, pacer.Status(1, start.Add(-time.Minute)).Kind)
}

func TestStatus_Symmetry(t *testing.T) {
	pacer := thirtyDayPlan(t)
	now := start.Add(10 * day)
	expected := pacer.ExpectedPage(now)

	for offset := 0; offset <= 50; offset++ {
		ahead := pacer.Status(expected+offset, now)
		behind := pacer.Status(expected-offset, now)

		assert.Equal(t, ahead.Magnitude, behind.Magnitude, "offset %d", offset)
		if offset <= 2 {
			assert.Equal(t, pacing.StatusOnTrack, ahead.Kind)
			assert.Equal(t, pacing.StatusOnTrack, behind.Kind)
		} else {
			assert.Equal(t, pacing.StatusAhead, ahead.Kind)
			assert.Equal(t, pacing.StatusBehind, behind.Kind)
		}
	}
}

func TestDailyGoal_NeverBelowQuota(t *testing.T) {
	durations := []int{1, 7, 29, 30, 31, 100, 365}

	for _, days := range durations {
		pacer, err := pacing.New(start, start.Add(time.Duration(days)*day))
		require.NoError(t, err)

		for elapsed := -1; elapsed <= days+1; elapsed++ {
			now := start.Add(time.Duration(elapsed) * day)
			for _, current := range []int{1, 100, 302, 603, 604} {
				assert.GreaterOrEqual(t, pacer.DailyGoal(current, now), pacer.DailyQuota(),
					"days=%d elapsed=%d current=%d", days, elapsed, current)
			}
		}
	}
}

func TestTotalDays_RoundsUp(t *testing.T) {
	pacer, err := pacing.New(start, start.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, pacer.TotalDays())
	assert.Equal(t, 302, pacer.DailyQuota())

	short, err := pacing.New(start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, short.TotalDays())
	assert.Equal(t, 604, short.DailyQuota())
}

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{-10, 0},
		{0, 0},
		{3, 0},
		{6, 1},
		{302, 50},
		{453, 75},
		{604, 100},
		{900, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pacing.PercentComplete(tt.current), "current %d", tt.current)
	}
}

func TestReport(t *testing.T) {
	pacer := thirtyDayPlan(t)
	report := pacer.Report(200, start.Add(20*day+time.Hour))

	assert.Equal(t, 403, report.ExpectedPage)
	assert.Equal(t, pacing.StatusBehind, report.Status.Kind)
	assert.Equal(t, 30, report.TotalDays)
	assert.Equal(t, 20, report.DaysElapsed)
	assert.Equal(t, 10, report.DaysRemaining)
	assert.Equal(t, 33, report.PercentComplete)
}
