// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/khatmah/internal/platform/constants"
)

// PageCache remembers resolved pages per location.
type PageCache interface {
	// Page returns the cached page and whether it was found.
	Page(ctx context.Context, unit, position int) (int, bool, error)
	SetPage(ctx context.Context, unit, position, page int) error
}

// RedisPageCache stores one hash per unit: field = position, value = page.
// Layout never changes, so entries do not expire.
type RedisPageCache struct {
	client *redis.Client
}

// NewRedisPageCache wraps a connected client.
func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{client: client}
}

func pageCacheKey(unit int) string {
	return constants.CachePrefixPageLookup + strconv.Itoa(unit)
}

// Page implements [PageCache].
func (cache *RedisPageCache) Page(ctx context.Context, unit, position int) (int, bool, error) {
	page, err := cache.client.HGet(ctx, pageCacheKey(unit), strconv.Itoa(position)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("page_cache_get_failed: %w", err)
	}
	return page, true, nil
}

// SetPage implements [PageCache].
func (cache *RedisPageCache) SetPage(ctx context.Context, unit, position, page int) error {
	if err := cache.client.HSet(ctx, pageCacheKey(unit), strconv.Itoa(position), page).Err(); err != nil {
		return fmt.Errorf("page_cache_set_failed: %w", err)
	}
	return nil
}
