// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by [Cache.Get] when the key holds no record.
var ErrCacheMiss = errors.New("tiered: cache miss")

// Cache is the local tier: a key/value store without expiry.
//
// Calls complete before returning; callers rely on a successful Set being
// visible to the very next Get.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON reads and decodes a record. A miss returns (nil, nil).
func GetJSON[T any](ctx context.Context, cache Cache, key string) (*T, error) {
	raw, err := cache.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache_get %s: %w", key, err)
	}

	record := new(T)
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("cache_decode %s: %w", key, err)
	}

	return record, nil
}

// SetJSON encodes and stores a record, replacing whatever the key held.
func SetJSON[T any](ctx context.Context, cache Cache, key string, record *T) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cache_encode %s: %w", key, err)
	}

	if err := cache.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("cache_set %s: %w", key, err)
	}

	return nil
}

// probeKey is never written; reading it only proves the store answers.
const probeKey = "health:probe"

// Probe reports whether cache can serve reads.
func Probe(ctx context.Context, cache Cache) error {
	if _, err := cache.Get(ctx, probeKey); err != nil && !errors.Is(err, ErrCacheMiss) {
		return fmt.Errorf("cache_probe: %w", err)
	}
	return nil
}
