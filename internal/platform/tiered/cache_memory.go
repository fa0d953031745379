// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered

import (
	"context"
	"sync"
)

// MemoryCache is a process-local [Cache] used by tests and tooling.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

// Get implements [Cache].
func (cache *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	value, ok := cache.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), value...), nil
}

// Set implements [Cache].
func (cache *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	cache.mu.Lock()
	cache.entries[key] = append([]byte(nil), value...)
	cache.mu.Unlock()
	return nil
}

// Delete implements [Cache].
func (cache *MemoryCache) Delete(_ context.Context, key string) error {
	cache.mu.Lock()
	delete(cache.entries, key)
	cache.mu.Unlock()
	return nil
}
