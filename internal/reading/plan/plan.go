// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package plan owns each reader's time-boxed completion plan.

A plan stores only raw position fields. Everything a reader sees about pace
(expected page, status, daily goal, percent) is recomputed by the pacing
package on every read so it always agrees with the current clock.

Storage follows the same two-tier discipline as bookmarks. Deletes are
written to the local tier as a tombstone so they are ordered by timestamp
against every other write.
*/
package plan

import (
	"context"
	"time"

	"github.com/taibuivan/khatmah/internal/platform/constants"
	"github.com/taibuivan/khatmah/internal/platform/validate"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
	"github.com/taibuivan/khatmah/internal/quran"
)

const (
	// MinDurationDays and MaxDurationDays bound the length of a new plan.
	MinDurationDays = 1
	MaxDurationDays = 3650

	day = 24 * time.Hour
)

// # Domain Entities

// Status is the lifecycle of a plan.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Progress is the reader's current location within a plan.
type Progress struct {
	UnitNumber     int `json:"current_unit"`
	PositionInUnit int `json:"current_position_in_unit"`
	AbsolutePage   int `json:"current_absolute_page"`
}

// Validate rejects locations that cannot exist in the text.
func (p Progress) Validate() error {
	page := p.AbsolutePage
	return quran.ValidateWithPage(p.UnitNumber, p.PositionInUnit, &page)
}

// Finishes reports whether this location completes the text.
func (p Progress) Finishes() bool {
	return p.AbsolutePage >= quran.TotalPages
}

// StartProgress is where every new plan begins.
var StartProgress = Progress{UnitNumber: 1, PositionInUnit: 1, AbsolutePage: 1}

// Plan is one owner's completion schedule. An owner has at most one.
type Plan struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    Status    `json:"status"`
	Progress
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"` // local-tier tombstone only
}

// Version implements [tiered.Versioned].
func (p *Plan) Version() time.Time { return p.UpdatedAt }

// Deleted reports whether the record is a tombstone.
func (p *Plan) Deleted() bool { return p.DeletedAt != nil }

// Accepting reports whether progress may still be recorded.
func (p *Plan) Accepting() bool {
	return p != nil && !p.Deleted() && p.Status == StatusActive
}

// View is a plan with its pacing computed at read time.
type View struct {
	*Plan
	Pacing pacing.Report `json:"pacing"`
}

// NewView computes the pacing report of plan at now.
func NewView(plan *Plan, now time.Time) (*View, error) {
	pacer, err := pacing.New(plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, err
	}
	return &View{Plan: plan, Pacing: pacer.Report(plan.AbsolutePage, now)}, nil
}

// ValidateDuration rejects plan lengths outside [MinDurationDays, MaxDurationDays].
func ValidateDuration(days int) error {
	v := &validate.Validator{}
	return v.Range("duration_days", days, MinDurationDays, MaxDurationDays).Err()
}

func cacheKey(ownerID string) string {
	return constants.CachePrefixPlan + ownerID
}

// # Repository Contracts

// Repository is the durable tier for personal plans.
type Repository interface {
	/*
		FindByOwner retrieves the owner's plan.

		Returns:
		  - *Plan: Stored record
		  - error: apperr.NotFound when the owner has none, or storage failures
	*/
	FindByOwner(context context.Context, ownerID string) (*Plan, error)

	/*
		Upsert replaces the owner's plan unless the stored one is newer.
	*/
	Upsert(context context.Context, plan *Plan) error

	/*
		Delete removes the owner's plan unless the stored one is newer than
		asOf. The id is not checked: a tombstone buries whatever plan it
		superseded.
	*/
	Delete(context context.Context, ownerID string, asOf time.Time) error
}
