// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package link records which readers are paired up.

Two linked readers can share one plan. A reader has at most one partner, and
a pair is unordered: it is always stored with the smaller id first and
addressed by [PairKey].
*/
package link

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/khatmah/internal/platform/validate"
)

// Link is an unordered pair of readers. UserA < UserB.
type Link struct {
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

// Other returns the member of the pair that is not userID.
func (l Link) Other(userID string) string {
	if l.UserA == userID {
		return l.UserB
	}
	return l.UserA
}

// Order returns a and b sorted.
func Order(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey is the id of the unordered pair {a, b}: both ids sorted and joined
// by ':'. PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	first, second := Order(a, b)
	return first + ":" + second
}

// maxUserIDLength bounds the ids issued by the identity provider.
const maxUserIDLength = 128

// ValidatePair rejects empty or oversized ids and self-pairs.
func ValidatePair(a, b string) error {
	v := &validate.Validator{}
	return v.Required("user_a", a).
		Required("user_b", b).
		MaxLen("user_a", a, maxUserIDLength).
		MaxLen("user_b", b, maxUserIDLength).
		Custom("user_b", strings.TrimSpace(a) != "" && a == b, "Cannot link a reader with themselves").
		Err()
}

// Directory answers who is linked with whom.
type Directory interface {
	/*
		AreLinked reports whether a and b are partners.
	*/
	AreLinked(context context.Context, a, b string) (bool, error)

	/*
		PartnerOf returns the partner of userID.

		Returns:
		  - string: partner id
		  - bool: false when userID has no partner
		  - error: storage failures
	*/
	PartnerOf(context context.Context, userID string) (string, bool, error)

	/*
		Link pairs a and b.

		Returns:
		  - *Link: the stored pair
		  - error: VALIDATION_ERROR for self-pairs, CONFLICT if either is already linked
	*/
	Link(context context.Context, a, b string) (*Link, error)

	/*
		Unlink removes the pair that contains userID.

		Returns:
		  - *Link: the removed pair
		  - error: NOT_FOUND when userID has no partner
	*/
	Unlink(context context.Context, userID string) (*Link, error)
}
