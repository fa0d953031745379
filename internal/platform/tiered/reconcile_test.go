// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/khatmah/internal/platform/tiered"
)

type record struct {
	Page      int
	UpdatedAt time.Time
}

func (r *record) Version() time.Time { return r.UpdatedAt }

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestReconcile(t *testing.T) {
	older := &record{Page: 10, UpdatedAt: base}
	newer := &record{Page: 42, UpdatedAt: base.Add(time.Minute)}
	tied := &record{Page: 11, UpdatedAt: base}

	tests := []struct {
		name       string
		local      *record
		durable    *record
		wantPage   int
		wantRepair tiered.Repair
	}{
		{"durable_newer_wins", older, newer, 42, tiered.RepairLocal},
		{"local_newer_wins", newer, older, 42, tiered.RepairDurable},
		{"tie_goes_to_durable", older, tied, 11, tiered.RepairLocal},
		{"local_only", older, nil, 10, tiered.RepairDurable},
		{"durable_only", nil, newer, 42, tiered.RepairLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, repair := tiered.Reconcile(tt.local, tt.durable)
			assert.Equal(t, tt.wantPage, winner.Page)
			assert.Equal(t, tt.wantRepair, repair)
		})
	}
}

func TestReconcile_BothEmpty(t *testing.T) {
	winner, repair := tiered.Reconcile[*record](nil, nil)
	assert.Nil(t, winner)
	assert.Equal(t, tiered.RepairNone, repair)
}

// Applying the named repair and reconciling again must be stable.
func TestReconcile_Converges(t *testing.T) {
	local := &record{Page: 7, UpdatedAt: base.Add(2 * time.Hour)}
	durable := &record{Page: 300, UpdatedAt: base}

	winner, repair := tiered.Reconcile(local, durable)
	assert.Equal(t, tiered.RepairDurable, repair)
	durable = winner

	again, _ := tiered.Reconcile(local, durable)
	assert.Equal(t, winner, again)
	assert.Equal(t, 7, again.Page)
}

func TestRepair_String(t *testing.T) {
	assert.Equal(t, "none", tiered.RepairNone.String())
	assert.Equal(t, "local", tiered.RepairLocal.String())
	assert.Equal(t, "durable", tiered.RepairDurable.String())
}
