// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache implements [Cache] on an embedded Badger database.
//
// It serves single-node deployments where the fast tier should live on the
// same disk as the process instead of in a shared Redis.
type BadgerCache struct {
	db *badger.DB
}

// OpenBadgerCache opens (or creates) a Badger database in dir.
func OpenBadgerCache(dir string, logger *slog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: failed to open %s: %w", dir, err)
	}

	logger.Info("badger cache opened", slog.String("path", dir))
	return &BadgerCache{db: db}, nil
}

// OpenInMemoryBadgerCache opens a Badger database that never touches disk.
func OpenInMemoryBadgerCache() (*BadgerCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: failed to open in-memory db: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Get implements [Cache].
func (cache *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := cache.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("badger_cache_get_failed: %w", err)
	}
	return value, nil
}

// Set implements [Cache].
func (cache *BadgerCache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := cache.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger_cache_set_failed: %w", err)
	}
	return nil
}

// Delete implements [Cache].
func (cache *BadgerCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := cache.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger_cache_delete_failed: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (cache *BadgerCache) Close() error {
	return cache.db.Close()
}
