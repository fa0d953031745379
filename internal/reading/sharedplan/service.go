// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sharedplan

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
	"github.com/taibuivan/khatmah/internal/reading/plan"
	"github.com/taibuivan/khatmah/internal/social/link"
)

const day = 24 * time.Hour

// # Service Layer

// Partners is the part of [link.Directory] the coordinator needs.
type Partners interface {
	AreLinked(context stdctx.Context, a, b string) (bool, error)
	PartnerOf(context stdctx.Context, userID string) (string, bool, error)
}

// Service manages shared plans across both tiers.
type Service struct {
	cache      tiered.Cache
	repository Repository
	partners   Partners
	writer     *tiered.WriteBehind
	stamper    *clock.Stamper
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	cache tiered.Cache,
	repository Repository,
	partners Partners,
	writer *tiered.WriteBehind,
	stamper *clock.Stamper,
	logger *slog.Logger,
) *Service {
	return &Service{
		cache:      cache,
		repository: repository,
		partners:   partners,
		writer:     writer,
		stamper:    stamper,
		logger:     logger,
	}
}

func jobKey(pairID string) string {
	return "sharedplan:" + pairID
}

// # Operations

/*
Create starts a plan for initiator and partner, replacing the pair's previous one.

Returns:
  - *View: the new plan with its initial pacing
  - error: VALIDATION_ERROR, or FORBIDDEN when the two are not linked
*/
func (service *Service) Create(context stdctx.Context, initiator, partner string, durationDays int) (*View, error) {
	if err := plan.ValidateDuration(durationDays); err != nil {
		return nil, err
	}
	if err := link.ValidatePair(initiator, partner); err != nil {
		return nil, err
	}

	linked, err := service.partners.AreLinked(context, initiator, partner)
	if err != nil {
		return nil, fmt.Errorf("sharedplan_link_check_failed: %w", err)
	}
	if !linked {
		return nil, apperr.Forbidden("Shared plans require a linked partner")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("sharedplan_id_generation_failed: %w", err))
	}

	userA, userB := link.Order(initiator, partner)
	now := service.stamper.Next()
	shared := &SharedPlan{
		ID:        id.String(),
		PairID:    link.PairKey(initiator, partner),
		UserA:     userA,
		UserB:     userB,
		StartDate: now,
		EndDate:   now.Add(time.Duration(durationDays) * day),
		Status:    plan.StatusActive,
		Progress:  plan.StartProgress,
		CreatedBy: initiator,
		UpdatedBy: initiator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.store(context, shared); err != nil {
		return nil, err
	}

	service.log(context).InfoContext(context, "sharedplan_created",
		slog.String("pair_id", shared.PairID),
		slog.String("plan_id", shared.ID),
		slog.String("created_by", initiator),
		slog.Int("duration_days", durationDays),
	)

	return NewView(shared, now)
}

/*
RecordProgress overwrites the pair's shared location with the participant's.

Description: A no-op when the participant has no partner, the pair has no
plan, or the plan is finished or deleted. The last call wins even when it
moves the shared location backwards.

Returns:
  - *SharedPlan: the updated plan, nil on a no-op
  - error: VALIDATION_ERROR for impossible locations, or local tier failures
*/
func (service *Service) RecordProgress(context stdctx.Context, participant string, progress plan.Progress) (*SharedPlan, error) {
	if err := progress.Validate(); err != nil {
		return nil, err
	}

	pairID, ok := service.pairOf(context, participant)
	if !ok {
		return nil, nil
	}

	shared, err := service.current(context, pairID)
	if err != nil {
		return nil, err
	}
	if !shared.Accepting() {
		return nil, nil
	}

	shared.Progress = progress
	shared.UpdatedBy = participant
	shared.UpdatedAt = service.stamper.Next()
	if progress.Finishes() {
		shared.Status = plan.StatusFinished
		service.log(context).InfoContext(context, "sharedplan_finished",
			slog.String("pair_id", pairID),
			slog.String("plan_id", shared.ID),
		)
	}

	if err := service.store(context, shared); err != nil {
		return nil, err
	}
	return shared, nil
}

/*
Delete removes the pair's plan for both participants.

Returns:
  - error: NOT_FOUND when planID is not the pair's current plan
*/
func (service *Service) Delete(context stdctx.Context, participant, planID string) error {
	pairID, ok := service.pairOf(context, participant)
	if !ok {
		return apperr.NotFound("SharedPlan")
	}

	shared, err := service.current(context, pairID)
	if err != nil {
		return err
	}
	if shared == nil || shared.Deleted() || shared.ID != planID {
		return apperr.NotFound("SharedPlan")
	}

	now := service.stamper.Next()
	shared.DeletedAt = &now
	shared.UpdatedAt = now
	shared.UpdatedBy = participant

	if err := tiered.SetJSON(context, service.cache, cacheKey(pairID), shared); err != nil {
		return fmt.Errorf("sharedplan_delete_local_failed: %w", err)
	}

	service.writer.Submit(context, jobKey(pairID), "sharedplan_delete", func(ctx stdctx.Context) error {
		return service.repository.Delete(ctx, pairID, now)
	})

	service.log(context).InfoContext(context, "sharedplan_deleted",
		slog.String("pair_id", pairID),
		slog.String("plan_id", planID),
		slog.String("deleted_by", participant),
	)
	return nil
}

/*
Active returns the participant's shared plan with pacing computed now.

Returns:
  - *View: the plan and its pacing report
  - error: NOT_FOUND when the participant has no partner or no shared plan
*/
func (service *Service) Active(context stdctx.Context, participant string) (*View, error) {
	pairID, ok := service.pairOf(context, participant)
	if !ok {
		return nil, apperr.NotFound("SharedPlan")
	}

	shared, err := service.local(context, pairID)
	if err != nil {
		return nil, err
	}

	if shared == nil {
		if shared, err = service.syncPair(context, pairID); err != nil {
			return nil, err
		}
	} else {
		service.writer.Submit(context, jobKey(pairID), "sharedplan_reconcile", func(ctx stdctx.Context) error {
			_, err := service.syncPair(ctx, pairID)
			return err
		})
	}

	if shared == nil || shared.Deleted() {
		return nil, apperr.NotFound("SharedPlan")
	}
	return NewView(shared, service.stamper.Now())
}

/*
Sync reconciles both tiers for the participant's pair.

Returns:
  - *SharedPlan: the winner, possibly a tombstone; nil without a partner or record
  - error: durable read failures
*/
func (service *Service) Sync(context stdctx.Context, participant string) (*SharedPlan, error) {
	pairID, ok := service.pairOf(context, participant)
	if !ok {
		return nil, nil
	}
	return service.syncPair(context, pairID)
}

// # Helpers

func (service *Service) syncPair(context stdctx.Context, pairID string) (*SharedPlan, error) {
	logger := service.log(context)

	local, err := service.local(context, pairID)
	if err != nil {
		logger.WarnContext(context, "sharedplan_local_unreadable", slog.String("pair_id", pairID), slog.Any("error", err))
		local = nil
	}

	durable, err := service.repository.FindByPair(context, pairID)
	if err != nil && !apperr.IsNotFound(err) {
		return local, fmt.Errorf("sharedplan_sync_durable_read_failed: %w", err)
	}

	winner, repair := tiered.Reconcile(local, durable)
	switch repair {
	case tiered.RepairLocal:
		if err := tiered.SetJSON(context, service.cache, cacheKey(pairID), winner); err != nil {
			logger.WarnContext(context, "sharedplan_local_repair_failed", slog.String("pair_id", pairID), slog.Any("error", err))
		}
	case tiered.RepairDurable:
		service.repairDurable(context, winner, durable)
	}

	return winner, nil
}

func (service *Service) repairDurable(context stdctx.Context, winner, durable *SharedPlan) {
	var err error
	switch {
	case !winner.Deleted():
		err = service.repository.Upsert(context, winner)
	case durable != nil:
		err = service.repository.Delete(context, winner.PairID, *winner.DeletedAt)
	}

	if err != nil {
		service.log(context).WarnContext(context, "durable_write_failed",
			slog.String("op", "sharedplan_repair"),
			slog.String("pair_id", winner.PairID),
			slog.Any("error", err),
		)
	}
}

// pairOf resolves the participant's pair. A directory failure is logged and
// treated as having no partner.
func (service *Service) pairOf(context stdctx.Context, participant string) (string, bool) {
	partner, ok, err := service.partners.PartnerOf(context, participant)
	if err != nil {
		service.log(context).WarnContext(context, "sharedplan_partner_lookup_failed",
			slog.String("user_id", participant),
			slog.Any("error", err),
		)
		return "", false
	}
	if !ok {
		return "", false
	}
	return link.PairKey(participant, partner), true
}

func (service *Service) current(context stdctx.Context, pairID string) (*SharedPlan, error) {
	shared, err := service.local(context, pairID)
	if err != nil {
		return nil, err
	}
	if shared != nil {
		return shared, nil
	}

	shared, err = service.repository.FindByPair(context, pairID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			service.log(context).WarnContext(context, "sharedplan_durable_read_failed",
				slog.String("pair_id", pairID),
				slog.Any("error", err),
			)
		}
		return nil, nil
	}
	return shared, nil
}

func (service *Service) local(context stdctx.Context, pairID string) (*SharedPlan, error) {
	shared, err := tiered.GetJSON[SharedPlan](context, service.cache, cacheKey(pairID))
	if err != nil {
		return nil, fmt.Errorf("sharedplan_local_read_failed: %w", err)
	}
	return shared, nil
}

func (service *Service) store(context stdctx.Context, shared *SharedPlan) error {
	if err := tiered.SetJSON(context, service.cache, cacheKey(shared.PairID), shared); err != nil {
		return fmt.Errorf("sharedplan_store_local_failed: %w", err)
	}

	snapshot := *shared
	service.writer.Submit(context, jobKey(shared.PairID), "sharedplan_upsert", func(ctx stdctx.Context) error {
		return service.repository.Upsert(ctx, &snapshot)
	})
	return nil
}

func (service *Service) log(context stdctx.Context) *slog.Logger {
	return ctxutil.LoggerOr(context, service.logger)
}
