// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tracker fans a single page turn out to everything that follows the
reader: their bookmark, their personal plan and their shared plan.

The page is resolved once, by the bookmark save, and the same page is handed
to both plans.
*/
package tracker

import (
	"context"
	"log/slog"

	"github.com/taibuivan/khatmah/internal/platform/ctxutil"
	"github.com/taibuivan/khatmah/internal/reading/bookmark"
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/reading/sharedplan"
)

// BookmarkSaver saves the reader's position. Implemented by [bookmark.Service].
type BookmarkSaver interface {
	Save(ctx context.Context, ownerID string, position bookmark.Position) (*bookmark.Bookmark, error)
}

// PlanRecorder advances a personal plan. Implemented by [plan.Service].
type PlanRecorder interface {
	RecordProgress(ctx context.Context, ownerID string, progress plan.Progress) (*plan.Plan, error)
}

// SharedPlanRecorder advances a shared plan. Implemented by [sharedplan.Service].
type SharedPlanRecorder interface {
	RecordProgress(ctx context.Context, participant string, progress plan.Progress) (*sharedplan.SharedPlan, error)
}

// Outcome is what a page turn changed. Plans are nil when untouched.
type Outcome struct {
	Bookmark   *bookmark.Bookmark     `json:"bookmark"`
	Plan       *plan.Plan             `json:"plan,omitempty"`
	SharedPlan *sharedplan.SharedPlan `json:"shared_plan,omitempty"`
}

// Tracker records page turns.
type Tracker struct {
	bookmarks BookmarkSaver
	plans     PlanRecorder
	shared    SharedPlanRecorder
	logger    *slog.Logger
}

// New constructs a [Tracker].
func New(bookmarks BookmarkSaver, plans PlanRecorder, shared SharedPlanRecorder, logger *slog.Logger) *Tracker {
	return &Tracker{bookmarks: bookmarks, plans: plans, shared: shared, logger: logger}
}

/*
PageTurn records that ownerID is now reading position.

Description: The bookmark is authoritative; if it cannot be saved the turn
fails. Plan updates that fail afterwards are logged and left for the next
turn, so the reader never loses their place over a plan.

Returns:
  - *Outcome: the saved bookmark and any plan that moved
  - error: VALIDATION_ERROR for impossible locations, or bookmark failures
*/
func (tracker *Tracker) PageTurn(ctx context.Context, ownerID string, position bookmark.Position) (*Outcome, error) {
	saved, err := tracker.bookmarks.Save(ctx, ownerID, position)
	if err != nil {
		return nil, err
	}

	progress := plan.Progress{
		UnitNumber:     saved.UnitNumber,
		PositionInUnit: saved.PositionInUnit,
		AbsolutePage:   *saved.AbsolutePage,
	}
	outcome := &Outcome{Bookmark: saved}
	logger := ctxutil.LoggerOr(ctx, tracker.logger)

	if outcome.Plan, err = tracker.plans.RecordProgress(ctx, ownerID, progress); err != nil {
		logger.WarnContext(ctx, "page_turn_plan_failed",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
	}

	if outcome.SharedPlan, err = tracker.shared.RecordProgress(ctx, ownerID, progress); err != nil {
		logger.WarnContext(ctx, "page_turn_sharedplan_failed",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
	}

	logger.DebugContext(ctx, "page_turned",
		slog.String("owner_id", ownerID),
		slog.Int("page", progress.AbsolutePage),
		slog.Bool("plan_moved", outcome.Plan != nil),
		slog.Bool("sharedplan_moved", outcome.SharedPlan != nil),
	)

	return outcome, nil
}
