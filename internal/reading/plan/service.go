// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package plan

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/platform/ctxutil"
	"github.com/taibuivan/khatmah/internal/platform/tiered"
)

// # Service Layer

// Service manages personal plans across both tiers.
type Service struct {
	cache      tiered.Cache
	repository Repository
	writer     *tiered.WriteBehind
	stamper    *clock.Stamper
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	cache tiered.Cache,
	repository Repository,
	writer *tiered.WriteBehind,
	stamper *clock.Stamper,
	logger *slog.Logger,
) *Service {
	return &Service{
		cache:      cache,
		repository: repository,
		writer:     writer,
		stamper:    stamper,
		logger:     logger,
	}
}

func jobKey(ownerID string) string {
	return "plan:" + ownerID
}

// # Operations

/*
Create starts a new plan of durationDays, replacing any previous one.

Parameters:
  - context: context.Context
  - ownerID: string
  - durationDays: int in [MinDurationDays, MaxDurationDays]

Returns:
  - *View: the new plan with its initial pacing
  - error: VALIDATION_ERROR before any state change, or local tier failures
*/
func (service *Service) Create(context stdctx.Context, ownerID string, durationDays int) (*View, error) {
	if err := ValidateDuration(durationDays); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("plan_id_generation_failed: %w", err))
	}

	now := service.stamper.Next()
	plan := &Plan{
		ID:        id.String(),
		OwnerID:   ownerID,
		StartDate: now,
		EndDate:   now.Add(time.Duration(durationDays) * day),
		Status:    StatusActive,
		Progress:  StartProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.store(context, plan, "plan_upsert"); err != nil {
		return nil, err
	}

	service.log(context).InfoContext(context, "plan_created",
		slog.String("owner_id", ownerID),
		slog.String("plan_id", plan.ID),
		slog.Int("duration_days", durationDays),
	)

	return NewView(plan, now)
}

/*
RecordProgress moves the owner's active plan to a new location.

Description: A no-op when the owner has no plan, or the plan is finished or
deleted. Reaching the last page finishes the plan.

Returns:
  - *Plan: the updated plan, nil on a no-op
  - error: VALIDATION_ERROR for impossible locations, or tier failures
*/
func (service *Service) RecordProgress(context stdctx.Context, ownerID string, progress Progress) (*Plan, error) {
	if err := progress.Validate(); err != nil {
		return nil, err
	}

	plan, err := service.current(context, ownerID)
	if err != nil {
		return nil, err
	}
	if !plan.Accepting() {
		return nil, nil
	}

	plan.Progress = progress
	plan.UpdatedAt = service.stamper.Next()
	if progress.Finishes() {
		plan.Status = StatusFinished
		service.log(context).InfoContext(context, "plan_finished",
			slog.String("owner_id", ownerID),
			slog.String("plan_id", plan.ID),
		)
	}

	if err := service.store(context, plan, "plan_upsert"); err != nil {
		return nil, err
	}
	return plan, nil
}

/*
Delete removes the owner's plan. Confirmation is the caller's responsibility.

Returns:
  - error: NOT_FOUND when planID is not the owner's current plan
*/
func (service *Service) Delete(context stdctx.Context, ownerID, planID string) error {
	plan, err := service.current(context, ownerID)
	if err != nil {
		return err
	}
	if plan == nil || plan.Deleted() || plan.ID != planID {
		return apperr.NotFound("Plan")
	}

	now := service.stamper.Next()
	plan.DeletedAt = &now
	plan.UpdatedAt = now

	if err := tiered.SetJSON(context, service.cache, cacheKey(ownerID), plan); err != nil {
		return fmt.Errorf("plan_delete_local_failed: %w", err)
	}

	service.writer.Submit(context, jobKey(ownerID), "plan_delete", func(ctx stdctx.Context) error {
		return service.repository.Delete(ctx, ownerID, now)
	})

	service.log(context).InfoContext(context, "plan_deleted",
		slog.String("owner_id", ownerID),
		slog.String("plan_id", planID),
	)
	return nil
}

/*
Active returns the owner's plan with pacing computed now.

Description: Served from the local tier when present, with a reconcile
scheduled behind the response. On a local miss the tiers are reconciled
before answering.

Returns:
  - *View: the plan and its pacing report
  - error: NOT_FOUND when the owner has no plan
*/
func (service *Service) Active(context stdctx.Context, ownerID string) (*View, error) {
	plan, err := service.local(context, ownerID)
	if err != nil {
		return nil, err
	}

	if plan == nil {
		if plan, err = service.Sync(context, ownerID); err != nil {
			return nil, err
		}
	} else {
		service.writer.Submit(context, jobKey(ownerID), "plan_reconcile", func(ctx stdctx.Context) error {
			_, err := service.Sync(ctx, ownerID)
			return err
		})
	}

	if plan == nil || plan.Deleted() {
		return nil, apperr.NotFound("Plan")
	}
	return NewView(plan, service.stamper.Now())
}

/*
Sync reconciles both tiers for one owner.

Returns:
  - *Plan: the winner, possibly a tombstone; nil if neither tier has a record
  - error: durable read failures
*/
func (service *Service) Sync(context stdctx.Context, ownerID string) (*Plan, error) {
	logger := service.log(context)

	local, err := service.local(context, ownerID)
	if err != nil {
		logger.WarnContext(context, "plan_local_unreadable", slog.String("owner_id", ownerID), slog.Any("error", err))
		local = nil
	}

	durable, err := service.repository.FindByOwner(context, ownerID)
	if err != nil && !apperr.IsNotFound(err) {
		return local, fmt.Errorf("plan_sync_durable_read_failed: %w", err)
	}

	winner, repair := tiered.Reconcile(local, durable)
	switch repair {
	case tiered.RepairLocal:
		if err := tiered.SetJSON(context, service.cache, cacheKey(ownerID), winner); err != nil {
			logger.WarnContext(context, "plan_local_repair_failed", slog.String("owner_id", ownerID), slog.Any("error", err))
		}
	case tiered.RepairDurable:
		service.repairDurable(context, winner, durable)
	}

	return winner, nil
}

// # Helpers

// repairDurable pushes the local winner. A tombstone becomes a delete of
// whatever older plan the durable tier still holds.
func (service *Service) repairDurable(context stdctx.Context, winner, durable *Plan) {
	var err error
	switch {
	case !winner.Deleted():
		err = service.repository.Upsert(context, winner)
	case durable != nil:
		err = service.repository.Delete(context, winner.OwnerID, *winner.DeletedAt)
	}

	if err != nil {
		service.log(context).WarnContext(context, "durable_write_failed",
			slog.String("op", "plan_repair"),
			slog.String("owner_id", winner.OwnerID),
			slog.Any("error", err),
		)
	}
}

// current returns the plan to mutate: the local record, or the durable one
// when the local tier has never seen it. An unreachable durable tier counts
// as "no plan".
func (service *Service) current(context stdctx.Context, ownerID string) (*Plan, error) {
	plan, err := service.local(context, ownerID)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		return plan, nil
	}

	plan, err = service.repository.FindByOwner(context, ownerID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			service.log(context).WarnContext(context, "plan_durable_read_failed",
				slog.String("owner_id", ownerID),
				slog.Any("error", err),
			)
		}
		return nil, nil
	}
	return plan, nil
}

func (service *Service) local(context stdctx.Context, ownerID string) (*Plan, error) {
	plan, err := tiered.GetJSON[Plan](context, service.cache, cacheKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("plan_local_read_failed: %w", err)
	}
	return plan, nil
}

// store writes the plan locally and queues the durable upsert.
func (service *Service) store(context stdctx.Context, plan *Plan, op string) error {
	if err := tiered.SetJSON(context, service.cache, cacheKey(plan.OwnerID), plan); err != nil {
		return fmt.Errorf("plan_store_local_failed: %w", err)
	}

	snapshot := *plan
	service.writer.Submit(context, jobKey(plan.OwnerID), op, func(ctx stdctx.Context) error {
		return service.repository.Upsert(ctx, &snapshot)
	})
	return nil
}

func (service *Service) log(context stdctx.Context) *slog.Logger {
	return ctxutil.LoggerOr(context, service.logger)
}
