// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bookmark

import (
	stdctx "context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/platform/ctxutil"
	"github.com/taibuivan/khatmah/internal/platform/tiered"
	"github.com/taibuivan/khatmah/internal/quran"
)

// # Service Layer

// Service keeps the two bookmark tiers in step.
//
// Every background job for one owner (reconciles and durable upserts) shares
// a single write-behind key, so they run in order and a queued job can be
// superseded by a newer one without losing the newest position: the local
// tier is always written before a job is queued.
type Service struct {
	cache      tiered.Cache
	repository Repository
	resolver   PageResolver
	writer     *tiered.WriteBehind
	stamper    *clock.Stamper
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	cache tiered.Cache,
	repository Repository,
	resolver PageResolver,
	writer *tiered.WriteBehind,
	stamper *clock.Stamper,
	logger *slog.Logger,
) *Service {
	return &Service{
		cache:      cache,
		repository: repository,
		resolver:   resolver,
		writer:     writer,
		stamper:    stamper,
		logger:     logger,
	}
}

func jobKey(ownerID string) string {
	return "bookmark:" + ownerID
}

// # Reads

/*
Cached returns the local-tier bookmark without touching the durable tier.

Returns:
  - *Bookmark: nil when the owner has no local record
  - error: local tier failures
*/
func (service *Service) Cached(context stdctx.Context, ownerID string) (*Bookmark, error) {
	bookmark, err := tiered.GetJSON[Bookmark](context, service.cache, cacheKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("bookmark_cached_read_failed: %w", err)
	}
	return bookmark, nil
}

/*
Load returns the local bookmark immediately and schedules a reconcile against
the durable tier in the background. The next Load (or Cached) sees the result.

When the local tier has nothing to restore (a new device, a flushed cache or
an unreadable record) the tiers are reconciled before answering instead.

Returns:
  - *Bookmark: the local record or the reconciled one, nil if neither tier has one
  - error: local tier failures when the durable tier is unreachable too
*/
func (service *Service) Load(context stdctx.Context, ownerID string) (*Bookmark, error) {
	local, err := service.Cached(context, ownerID)
	if err == nil && local != nil {
		service.writer.Submit(context, jobKey(ownerID), "bookmark_reconcile", func(ctx stdctx.Context) error {
			_, err := service.Sync(ctx, ownerID)
			return err
		})
		return local, nil
	}

	winner, syncErr := service.Sync(context, ownerID)
	if syncErr != nil {
		ctxutil.LoggerOr(context, service.logger).WarnContext(context, "bookmark_load_durable_unreachable",
			slog.String("owner_id", ownerID),
			slog.Any("error", syncErr),
		)
		return nil, err
	}
	return winner, nil
}

/*
Sync reconciles both tiers for one owner and returns the winner.

Description: The newer record by updated_at wins (ties go to durable) and is
written into the tier that lagged. A winner without an absolute page is
backfilled through the resolver once and written to both tiers.

Returns:
  - *Bookmark: the reconciled record, nil if neither tier has one
  - error: durable read failures; the local record is left untouched
*/
func (service *Service) Sync(context stdctx.Context, ownerID string) (*Bookmark, error) {
	logger := ctxutil.LoggerOr(context, service.logger)

	local, err := service.Cached(context, ownerID)
	if err != nil {
		// A broken local record is repaired from durable below.
		logger.WarnContext(context, "bookmark_local_unreadable", slog.String("owner_id", ownerID), slog.Any("error", err))
		local = nil
	}

	durable, err := service.repository.FindByOwner(context, ownerID)
	if err != nil && !apperr.IsNotFound(err) {
		return local, fmt.Errorf("bookmark_sync_durable_read_failed: %w", err)
	}

	winner, repair := tiered.Reconcile(local, durable)
	if winner == nil {
		return nil, nil
	}

	backfilled := false
	if winner.AbsolutePage == nil {
		page := service.resolver.Resolve(context, winner.UnitNumber, winner.PositionInUnit, nil)
		winner.AbsolutePage = &page
		backfilled = true
		logger.InfoContext(context, "bookmark_page_backfilled", slog.String("owner_id", ownerID), slog.Int("page", page))
	}

	if repair == tiered.RepairLocal || backfilled {
		if err := tiered.SetJSON(context, service.cache, cacheKey(ownerID), winner); err != nil {
			logger.WarnContext(context, "bookmark_local_repair_failed", slog.String("owner_id", ownerID), slog.Any("error", err))
		}
	}

	if repair == tiered.RepairDurable || backfilled {
		if err := service.repository.Upsert(context, winner); err != nil {
			logger.WarnContext(context, "durable_write_failed",
				slog.String("op", "bookmark_repair"),
				slog.String("owner_id", ownerID),
				slog.Any("error", err),
			)
		}
	}

	if repair != tiered.RepairNone || backfilled {
		logger.DebugContext(context, "bookmark_reconciled",
			slog.String("owner_id", ownerID),
			slog.String("repaired", repair.String()),
			slog.Bool("backfilled", backfilled),
		)
	}

	return winner, nil
}

// # Writes

/*
Save records a new reading position.

Description: Stamps updated_at, writes the whole record to the local tier
before returning, and queues the durable upsert. A durable failure is logged
and left for the next Sync to repair.

Parameters:
  - context: context.Context
  - ownerID: string
  - position: Position (page is resolved when absent)

Returns:
  - *Bookmark: the saved record
  - error: VALIDATION_ERROR for impossible locations, or local tier failures
*/
func (service *Service) Save(context stdctx.Context, ownerID string, position Position) (*Bookmark, error) {
	if err := quran.ValidateWithPage(position.UnitNumber, position.PositionInUnit, position.AbsolutePage); err != nil {
		return nil, err
	}

	page := service.resolver.Resolve(context, position.UnitNumber, position.PositionInUnit, position.AbsolutePage)

	unitName := position.UnitName
	if unitName == "" {
		unitName = service.resolver.UnitName(context, position.UnitNumber)
	}

	bookmark := &Bookmark{
		OwnerID:        ownerID,
		UnitNumber:     position.UnitNumber,
		UnitName:       unitName,
		PositionInUnit: position.PositionInUnit,
		AbsolutePage:   &page,
		UpdatedAt:      service.stamper.Next(),
	}

	if err := tiered.SetJSON(context, service.cache, cacheKey(ownerID), bookmark); err != nil {
		return nil, fmt.Errorf("bookmark_save_local_failed: %w", err)
	}

	snapshot := *bookmark
	service.writer.Submit(context, jobKey(ownerID), "bookmark_upsert", func(ctx stdctx.Context) error {
		return service.repository.Upsert(ctx, &snapshot)
	})

	ctxutil.LoggerOr(context, service.logger).DebugContext(context, "bookmark_saved",
		slog.String("owner_id", ownerID),
		slog.Int("page", page),
	)

	return bookmark, nil
}
