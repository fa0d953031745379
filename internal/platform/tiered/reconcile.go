// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered

import "time"

// Versioned is a record that can be ordered across tiers. The zero value of T
// (a nil pointer for pointer types) stands for "no record in this tier".
type Versioned interface {
	comparable
	Version() time.Time
}

// Repair names the tier that must be rewritten after a reconcile.
type Repair int

const (
	// RepairNone means both tiers are empty.
	RepairNone Repair = iota

	// RepairLocal means the durable record won and must be written to the local tier.
	RepairLocal

	// RepairDurable means the local record won and must be pushed to the durable tier.
	RepairDurable
)

// String implements [fmt.Stringer] for log attributes.
func (r Repair) String() string {
	switch r {
	case RepairLocal:
		return "local"
	case RepairDurable:
		return "durable"
	default:
		return "none"
	}
}

/*
Reconcile picks the record both tiers should converge on.

Rules:
  - Both empty: zero value, [RepairNone].
  - One side empty: the other side wins and the empty tier is repaired.
  - Durable version >= local version: durable wins, local is repaired.
  - Local strictly newer: local wins, durable is repaired.

Ties resolve to durable because durable is the shared source of truth across
devices. Reconcile is pure; callers perform the repair it names.
*/
func Reconcile[T Versioned](local, durable T) (T, Repair) {
	var zero T

	switch {
	case local == zero && durable == zero:
		return zero, RepairNone
	case local == zero:
		return durable, RepairLocal
	case durable == zero:
		return local, RepairDurable
	case !durable.Version().Before(local.Version()):
		return durable, RepairLocal
	default:
		return local, RepairDurable
	}
}
