// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bookmark owns each reader's last reading position.

A bookmark lives in two tiers: the local cache, which is written synchronously
on every save so the next open restores instantly, and PostgreSQL, which is
written behind the caller. Loading reconciles the two by updated_at so the
more recent position is never silently lost.

# Architecture

  - Entities: Bookmark, Position (input).
  - Service: Cached, Load, Sync, Save.
  - Storage: [tiered.Cache] (local) + [Repository] (durable).
*/
package bookmark

import (
	"context"
	"time"

	"github.com/taibuivan/khatmah/internal/platform/constants"
)

// # Domain Entities

// Bookmark is the single "last reading position" record of an owner.
// Saves always replace the whole record.
type Bookmark struct {
	OwnerID        string    `json:"owner_id"`
	UnitNumber     int       `json:"unit_number"`
	UnitName       string    `json:"unit_name"`
	PositionInUnit int       `json:"position_in_unit"`
	AbsolutePage   *int      `json:"absolute_page"` // nil on legacy rows until backfilled
	UpdatedAt      time.Time `json:"updated_at"`
}

// Version implements [tiered.Versioned].
func (b *Bookmark) Version() time.Time { return b.UpdatedAt }

// Position is what a reader hands over when they stop reading.
type Position struct {
	UnitNumber     int
	UnitName       string
	PositionInUnit int
	AbsolutePage   *int
}

func cacheKey(ownerID string) string {
	return constants.CachePrefixBookmark + ownerID
}

// # Repository Contracts

// Repository is the durable tier for bookmarks.
type Repository interface {
	/*
		FindByOwner retrieves the bookmark of an owner.

		Parameters:
		  - context: context.Context
		  - ownerID: string

		Returns:
		  - *Bookmark: Stored record
		  - error: apperr.NotFound when the owner has none, or storage failures
	*/
	FindByOwner(context context.Context, ownerID string) (*Bookmark, error)

	/*
		Upsert replaces the owner's bookmark unless the stored one is newer.

		Parameters:
		  - context: context.Context
		  - bookmark: *Bookmark

		Returns:
		  - error: Storage failures
	*/
	Upsert(context context.Context, bookmark *Bookmark) error
}

// PageResolver turns a location into an absolute page. Satisfied by [*quran.Resolver].
type PageResolver interface {
	Resolve(ctx context.Context, unit, position int, known *int) int
	UnitName(ctx context.Context, unit int) string
}
