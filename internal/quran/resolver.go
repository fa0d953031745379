// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"log/slog"
)

// Resolver turns locations into absolute pages.
type Resolver struct {
	provider ContentProvider
	cache    PageCache
	logger   *slog.Logger
}

// NewResolver wires a resolver. cache may be nil, in which case every
// unknown location costs one provider call.
func NewResolver(provider ContentProvider, cache PageCache, logger *slog.Logger) *Resolver {
	return &Resolver{provider: provider, cache: cache, logger: logger}
}

/*
Resolve returns the absolute page for (unit, position).

Lookup order:
 1. known, when non-nil and a valid page. No I/O.
 2. The page cache.
 3. Exactly one [ContentProvider.Locate] call; the answer is cached.
 4. The static [StartPage] of the unit.

Resolve never fails. Navigation must not block on an unreachable provider.
*/
func (resolver *Resolver) Resolve(ctx context.Context, unit, position int, known *int) int {
	if known != nil && ValidPage(*known) {
		return *known
	}

	logger := resolver.logger
	if resolver.cache != nil {
		page, found, err := resolver.cache.Page(ctx, unit, position)
		if err != nil {
			logger.WarnContext(ctx, "page_cache_read_failed", slog.Int("unit", unit), slog.Any("error", err))
		} else if found && ValidPage(page) {
			return page
		}
	}

	page, err := resolver.provider.Locate(ctx, unit, position)
	if err != nil || !ValidPage(page) {
		fallback := StartPage(unit)
		logger.WarnContext(ctx, "page_resolve_fallback",
			slog.Int("unit", unit),
			slog.Int("position", position),
			slog.Int("page", fallback),
			slog.Any("error", err),
		)
		return fallback
	}

	if resolver.cache != nil {
		if err := resolver.cache.SetPage(ctx, unit, position, page); err != nil {
			logger.WarnContext(ctx, "page_cache_write_failed", slog.Int("unit", unit), slog.Any("error", err))
		}
	}

	return page
}

// UnitName returns the display name of a unit, or "" when the provider is
// unreachable. Bookmarks tolerate a missing name.
func (resolver *Resolver) UnitName(ctx context.Context, unit int) string {
	info, err := resolver.provider.Unit(ctx, unit)
	if err != nil {
		resolver.logger.DebugContext(ctx, "unit_name_unavailable", slog.Int("unit", unit), slog.Any("error", err))
		return ""
	}
	return info.EnglishName
}
