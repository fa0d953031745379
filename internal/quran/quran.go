// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package quran maps locations in the text to absolute pages of the 604-page
Madani layout.

A location is a (unit, position) pair: the surah number and the ayah number
within it. Pages are what the reading engine stores and paces against.

Components:

  - [Resolver]: turns a location into a page, consulting a page cache and the
    [ContentProvider] only when the page is not already known.
  - [HTTPProvider]: the REST content provider client.
  - [StartPage]: the static fallback table used when the provider is down.
*/
package quran

import "github.com/taibuivan/khatmah/internal/platform/validate"

const (
	// TotalPages is the page count of the standard layout.
	TotalPages = 604

	// UnitCount is the number of units (surahs).
	UnitCount = 114
)

// unitStartPage holds the first page of each unit, indexed by unit-1.
var unitStartPage = [UnitCount]int{
	1, 2, 50, 77, 106, 128, 151, 177, 187, 208,
	221, 235, 249, 255, 262, 267, 282, 293, 305, 312,
	322, 332, 342, 350, 359, 367, 377, 385, 396, 404,
	411, 415, 418, 428, 434, 440, 446, 453, 458, 467,
	477, 483, 489, 496, 499, 502, 507, 511, 515, 518,
	520, 523, 526, 528, 531, 534, 537, 542, 545, 549,
	551, 553, 554, 556, 558, 560, 562, 564, 566, 568,
	570, 572, 574, 575, 577, 578, 580, 582, 583, 585,
	586, 587, 587, 589, 590, 591, 591, 592, 593, 594,
	595, 595, 596, 596, 597, 597, 598, 598, 599, 599,
	600, 600, 601, 601, 601, 602, 602, 602, 603, 603,
	603, 604, 604, 604,
}

// unitItemCount holds the ayah count of each unit, indexed by unit-1.
var unitItemCount = [UnitCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

// ItemCount returns the number of positions in unit, or 0 when unit does not exist.
func ItemCount(unit int) int {
	if unit < 1 || unit > UnitCount {
		return 0
	}
	return unitItemCount[unit-1]
}

// StartPage returns the first page of unit. Out-of-range units are clamped
// into [1, UnitCount] so the result is always a valid page.
func StartPage(unit int) int {
	unit = min(max(unit, 1), UnitCount)
	return unitStartPage[unit-1]
}

// ValidPage reports whether page lies in [1, TotalPages].
func ValidPage(page int) bool {
	return page >= 1 && page <= TotalPages
}

// Validate rejects locations that cannot exist in the text.
func Validate(unit, position int) error {
	return ValidateWithPage(unit, position, nil)
}

// ValidateWithPage also checks an optional caller-supplied page.
func ValidateWithPage(unit, position int, page *int) error {
	v := &validate.Validator{}
	v.Range("unit_number", unit, 1, UnitCount)
	if count := ItemCount(unit); count > 0 {
		v.Range("position_in_unit", position, 1, count)
	} else {
		v.Custom("position_in_unit", position < 1, "Must be at least 1")
	}
	v.OptionalRange("absolute_page", page, 1, TotalPages)
	return v.Err()
}
