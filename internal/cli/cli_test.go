// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{
		{"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"},
		{"pace"}, {"link"}, {"unlink"}, {"bookmark", "sync"}, {"token"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	_, err := execute(t, "pace", "--days", "30", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestPace_JSON(t *testing.T) {
	out, err := execute(t, "pace",
		"--start", "2026-01-01T06:00:00Z",
		"--days", "30",
		"--page", "302",
		"--at", "2026-01-16T06:00:00Z",
		"--format", "json",
	)
	require.NoError(t, err)

	var response struct {
		Status string        `json:"status"`
		Data   pacing.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 302, response.Data.ExpectedPage)
	assert.Equal(t, pacing.StatusOnTrack, response.Data.Status.Kind)
	assert.Equal(t, 21, response.Data.DailyGoal)
	assert.Equal(t, 30, response.Data.TotalDays)
}

func TestPace_Text(t *testing.T) {
	out, err := execute(t, "pace",
		"--start", "2026-01-01T06:00:00Z",
		"--end", "2026-01-31T06:00:00Z",
		"--page", "200",
		"--at", "2026-01-21T06:00:00Z",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "expected_page")
	assert.Contains(t, out, "402")
	assert.Contains(t, out, "behind (202)")
}

func TestPace_DefaultsToNow(t *testing.T) {
	now := clock.Func(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	cmd := newPaceCommand(&RootOptions{Format: "json"}, now)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--days", "10"})
	require.NoError(t, cmd.Execute())

	var response struct {
		Data pacing.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &response))
	assert.Equal(t, 0, response.Data.ExpectedPage)
	assert.Equal(t, pacing.StatusOnTrack, response.Data.Status.Kind)
	assert.Equal(t, 10, response.Data.DaysRemaining)
}

func TestPace_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no length", []string{"pace"}},
		{"end and days", []string{"pace", "--end", "2026-01-31T06:00:00Z", "--days", "3"}},
		{"malformed start", []string{"pace", "--start", "yesterday", "--days", "3"}},
		{"page out of range", []string{"pace", "--days", "3", "--page", "605"}},
		{"end before start", []string{"pace", "--start", "2026-01-31T06:00:00Z", "--end", "2026-01-01T06:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))

	wrapped := wrapExit(ExitCommandError, "load configuration", errors.New("DATABASE_URL missing"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "load configuration: DATABASE_URL missing", wrapped.Error())
}

func TestMigrate_MissingConfiguration(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := execute(t, "migrate", "version")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
