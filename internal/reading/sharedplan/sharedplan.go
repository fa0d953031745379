// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sharedplan coordinates one plan between two linked readers.

The pair shares a single current location. Whichever partner turns a page
last overwrites it, even when that moves the shared position backwards.
*/
package sharedplan

import (
	"context"
	"time"

	"github.com/taibuivan/khatmah/internal/platform/constants"
	"github.com/taibuivan/khatmah/internal/reading/pacing"
	"github.com/taibuivan/khatmah/internal/reading/plan"
)

// SharedPlan is the plan of one linked pair. UserA < UserB.
type SharedPlan struct {
	ID        string      `json:"id"`
	PairID    string      `json:"pair_id"`
	UserA     string      `json:"user_a"`
	UserB     string      `json:"user_b"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Status    plan.Status `json:"status"`
	plan.Progress
	CreatedBy string     `json:"created_by"`
	UpdatedBy string     `json:"updated_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Version implements [tiered.Versioned].
func (p *SharedPlan) Version() time.Time { return p.UpdatedAt }

// Deleted reports whether the record is a tombstone.
func (p *SharedPlan) Deleted() bool { return p.DeletedAt != nil }

// Accepting reports whether progress may still be recorded.
func (p *SharedPlan) Accepting() bool {
	return p != nil && !p.Deleted() && p.Status == plan.StatusActive
}

// View is a shared plan with its pacing computed at read time.
type View struct {
	*SharedPlan
	Pacing pacing.Report `json:"pacing"`
}

// NewView computes the pacing report of shared at now.
func NewView(shared *SharedPlan, now time.Time) (*View, error) {
	pacer, err := pacing.New(shared.StartDate, shared.EndDate)
	if err != nil {
		return nil, err
	}
	return &View{SharedPlan: shared, Pacing: pacer.Report(shared.AbsolutePage, now)}, nil
}

func cacheKey(pairID string) string {
	return constants.CachePrefixSharedPlan + pairID
}

// Repository is the durable tier for shared plans.
type Repository interface {
	/*
		FindByPair retrieves the pair's plan.

		Returns:
		  - *SharedPlan: Stored record
		  - error: apperr.NotFound when the pair has none, or storage failures
	*/
	FindByPair(context context.Context, pairID string) (*SharedPlan, error)

	/*
		Upsert replaces the pair's plan in arrival order.
	*/
	Upsert(context context.Context, shared *SharedPlan) error

	/*
		Delete removes the pair's plan unless the stored one is newer than
		asOf, whatever its id.
	*/
	Delete(context context.Context, pairID string, asOf time.Time) error
}
