// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pacing projects a time-boxed completion plan onto the calendar.

A [Pacer] is pure: it holds a start and an end instant and answers questions
about where a reader should be at a given moment. Nothing here is stored; plan
views compute a fresh [Report] on every read.

All arithmetic is done in integer milliseconds so that a projection computed
on one device matches the one computed on another.
*/
package pacing

import (
	"time"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/quran"
)

const (
	day = 24 * time.Hour

	// onTrackTolerance is the page distance still reported as on track.
	onTrackTolerance = 2
)

// # Status

// StatusKind classifies a reader's progress against the schedule.
type StatusKind string

const (
	StatusJustStarting StatusKind = "just_starting"
	StatusOnTrack      StatusKind = "on_track"
	StatusAhead        StatusKind = "ahead"
	StatusBehind       StatusKind = "behind"
)

// Status is the classification plus the number of pages ahead or behind.
type Status struct {
	Kind      StatusKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
}

// # Pacer

// Pacer holds the schedule of one plan.
type Pacer struct {
	start time.Time
	end   time.Time
}

// New builds a pacer. The end must be strictly after the start.
func New(start, end time.Time) (Pacer, error) {
	if !end.After(start) {
		return Pacer{}, apperr.ValidationError("Invalid plan schedule",
			apperr.FieldError{Field: "end_date", Message: "Must be after start_date"})
	}
	return Pacer{start: start, end: end}, nil
}

// Start returns the schedule start.
func (p Pacer) Start() time.Time { return p.start }

// End returns the schedule end.
func (p Pacer) End() time.Time { return p.end }

func (p Pacer) spanMs() int64 {
	return max(p.end.Sub(p.start).Milliseconds(), 1)
}

// TotalDays is the schedule length rounded up to whole days, at least 1.
func (p Pacer) TotalDays() int {
	days := ceilDiv(p.spanMs(), day.Milliseconds())
	return int(max(days, 1))
}

// DailyQuota is the even share of pages per day, rounded up.
func (p Pacer) DailyQuota() int {
	return int(ceilDiv(quran.TotalPages, int64(p.TotalDays())))
}

// ExpectedPage is the page a reader keeping an even pace would be on at now.
// Before the start it is 0; after the end it is the last page.
func (p Pacer) ExpectedPage(now time.Time) int {
	if now.Before(p.start) {
		return 0
	}

	elapsedMs := now.Sub(p.start).Milliseconds()
	expected := elapsedMs * quran.TotalPages / p.spanMs()

	return int(min(max(expected, 0), quran.TotalPages))
}

// Status compares current against the expected page at now.
func (p Pacer) Status(current int, now time.Time) Status {
	if now.Before(p.start) {
		return Status{Kind: StatusJustStarting}
	}

	diff := current - p.ExpectedPage(now)
	switch {
	case diff > onTrackTolerance:
		return Status{Kind: StatusAhead, Magnitude: diff}
	case diff < -onTrackTolerance:
		return Status{Kind: StatusBehind, Magnitude: -diff}
	default:
		return Status{Kind: StatusOnTrack, Magnitude: abs(diff)}
	}
}

// DailyGoal is the number of pages to read in the next 24 hours to be back on
// schedule by then. It never drops below [Pacer.DailyQuota].
func (p Pacer) DailyGoal(current int, now time.Time) int {
	catchUp := p.ExpectedPage(now.Add(day)) - current
	return max(p.DailyQuota(), catchUp)
}

// DaysElapsed counts whole days since the start, 0 before it.
func (p Pacer) DaysElapsed(now time.Time) int {
	if now.Before(p.start) {
		return 0
	}
	return int(now.Sub(p.start) / day)
}

// DaysRemaining counts days left until the end, rounded up, 0 once past it.
func (p Pacer) DaysRemaining(now time.Time) int {
	if !now.Before(p.end) {
		return 0
	}
	return int(ceilDiv(p.end.Sub(now).Milliseconds(), day.Milliseconds()))
}

// PercentComplete is current as a whole percentage of the text, clamped to
// [0, 100]. Any reader past page 5 sees at least 1%.
func PercentComplete(current int) int {
	percent := (current*200 + quran.TotalPages) / (2 * quran.TotalPages)
	if current <= 0 {
		percent = 0
	}
	percent = min(max(percent, 0), 100)

	if current > 5 && percent < 1 {
		percent = 1
	}
	return percent
}

// # Report

// Report bundles every derived value a plan view displays.
type Report struct {
	ExpectedPage    int    `json:"expected_page"`
	Status          Status `json:"status"`
	DailyGoal       int    `json:"daily_goal"`
	DailyQuota      int    `json:"daily_quota"`
	TotalDays       int    `json:"total_days"`
	DaysElapsed     int    `json:"days_elapsed"`
	DaysRemaining   int    `json:"days_remaining"`
	PercentComplete int    `json:"percent_complete"`
}

// Report computes the full projection at now.
func (p Pacer) Report(current int, now time.Time) Report {
	return Report{
		ExpectedPage:    p.ExpectedPage(now),
		Status:          p.Status(current, now),
		DailyGoal:       p.DailyGoal(current, now),
		DailyQuota:      p.DailyQuota(),
		TotalDays:       p.TotalDays(),
		DaysElapsed:     p.DaysElapsed(now),
		DaysRemaining:   p.DaysRemaining(now),
		PercentComplete: PercentComplete(current),
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
