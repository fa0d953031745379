// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package clock

import (
	"sync"
	"time"
)

// Resolution is the precision of record timestamps. It matches PostgreSQL
// timestamptz so a stamp survives a round trip through either tier unchanged.
const Resolution = time.Microsecond

// Stamper issues strictly increasing UTC timestamps for record versions.
//
// Two saves inside the same microsecond (or a wall clock stepping backwards)
// still get distinct, ordered stamps: the later call is bumped to one
// [Resolution] past the previous stamp.
//
// Stamper is safe for concurrent use.
type Stamper struct {
	clock Clock

	mu   sync.Mutex
	last time.Time
}

// NewStamper creates a stamper reading from clock.
func NewStamper(clock Clock) *Stamper {
	return &Stamper{clock: clock}
}

// Next returns the next version stamp.
func (s *Stamper) Next() time.Time {
	now := s.clock.Now().UTC().Truncate(Resolution)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !now.After(s.last) {
		now = s.last.Add(Resolution)
	}
	s.last = now

	return now
}

// Now exposes the underlying clock for derived-value computations.
func (s *Stamper) Now() time.Time {
	return s.clock.Now()
}
