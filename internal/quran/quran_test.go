// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/quran"
)

func TestStartPage(t *testing.T) {
	tests := []struct {
		unit int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 50},
		{18, 293},
		{36, 440},
		{67, 562},
		{114, 604},
		{0, 1},
		{-5, 1},
		{115, 604},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quran.StartPage(tt.unit), "unit %d", tt.unit)
	}
}

func TestStartPage_Monotonic(t *testing.T) {
	for unit := 2; unit <= quran.UnitCount; unit++ {
		assert.GreaterOrEqual(t, quran.StartPage(unit), quran.StartPage(unit-1), "unit %d", unit)
		assert.True(t, quran.ValidPage(quran.StartPage(unit)))
	}
}

func TestItemCount(t *testing.T) {
	total := 0
	for unit := 1; unit <= quran.UnitCount; unit++ {
		assert.Positive(t, quran.ItemCount(unit), "unit %d", unit)
		total += quran.ItemCount(unit)
	}
	assert.Equal(t, 6236, total)

	assert.Equal(t, 286, quran.ItemCount(2))
	assert.Zero(t, quran.ItemCount(0))
	assert.Zero(t, quran.ItemCount(115))
}

func TestValidate(t *testing.T) {
	page := 700

	tests := []struct {
		name     string
		unit     int
		position int
		valid    bool
	}{
		{"ayat al-kursi", 2, 255, true},
		{"last ayah of al-fatihah", 1, 7, true},
		{"last ayah of an-nas", 114, 6, true},
		{"unit zero", 0, 1, false},
		{"unit past the end", 115, 1, false},
		{"position zero", 1, 0, false},
		{"position past the unit", 1, 8, false},
		{"position far past the unit", 1, 999, false},
		{"position past al-baqarah", 2, 287, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := quran.Validate(tt.unit, tt.position)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}

	assert.True(t, apperr.HasCode(quran.ValidateWithPage(1, 1, &page), apperr.CodeValidation))
}
