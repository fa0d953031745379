// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package link_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/khatmah/internal/platform/apperr"
	"github.com/taibuivan/khatmah/internal/social/link"
)

func TestPairKey_Unordered(t *testing.T) {
	assert.Equal(t, "alice:bob", link.PairKey("alice", "bob"))
	assert.Equal(t, link.PairKey("alice", "bob"), link.PairKey("bob", "alice"))
}

func TestLink_Other(t *testing.T) {
	pair := link.Link{UserA: "alice", UserB: "bob"}

	assert.Equal(t, "bob", pair.Other("alice"))
	assert.Equal(t, "alice", pair.Other("bob"))
}

func TestValidatePair(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		valid bool
	}{
		{"distinct readers", "alice", "bob", true},
		{"self pair", "alice", "alice", false},
		{"missing partner", "alice", "", false},
		{"missing initiator", " ", "bob", false},
		{"oversized id", strings.Repeat("a", 129), "bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := link.ValidatePair(tt.a, tt.b)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}
