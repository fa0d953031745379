// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package readingtest provides shared fixtures for the reading packages' tests.
package readingtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/khatmah/internal/platform/clock"
	"github.com/taibuivan/khatmah/internal/platform/tiered"
	"github.com/taibuivan/khatmah/internal/quran"
)

// Epoch is the fixed instant every fixture clock starts at.
var Epoch = time.Date(2026, 2, 1, 7, 30, 0, 0, time.UTC)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Env bundles the infrastructure a reading service needs.
type Env struct {
	Clock   *clock.Manual
	Stamper *clock.Stamper
	Cache   *tiered.MemoryCache
	Writer  *tiered.WriteBehind
	Logger  *slog.Logger
}

// NewEnv builds a fresh environment on a manual clock.
func NewEnv() *Env {
	manual := clock.NewManual(Epoch)
	logger := Logger()

	return &Env{
		Clock:   manual,
		Stamper: clock.NewStamper(manual),
		Cache:   tiered.NewMemoryCache(),
		Writer:  tiered.NewWriteBehind(logger, time.Second),
		Logger:  logger,
	}
}

// Resolver is a deterministic page resolver that counts lookups.
//
// Known locations come from Pages ("unit:position" -> page); anything else
// resolves to the unit's start page, as the real resolver does offline.
type Resolver struct {
	mu      sync.Mutex
	Pages   map[string]int
	lookups int
}

// NewResolver creates a resolver with the given known pages.
func NewResolver(pages map[string]int) *Resolver {
	if pages == nil {
		pages = make(map[string]int)
	}
	return &Resolver{Pages: pages}
}

// Resolve mirrors [quran.Resolver.Resolve].
func (r *Resolver) Resolve(_ context.Context, unit, position int, known *int) int {
	if known != nil && quran.ValidPage(*known) {
		return *known
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++

	if page, ok := r.Pages[fmt.Sprintf("%d:%d", unit, position)]; ok {
		return page
	}
	return quran.StartPage(unit)
}

// UnitName returns a synthetic name.
func (r *Resolver) UnitName(_ context.Context, unit int) string {
	return fmt.Sprintf("Unit %d", unit)
}

// Lookups reports how many times Resolve had to look a page up.
func (r *Resolver) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}
