// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package quran

import (
	"context"
	"errors"
)

// ErrProviderUnavailable wraps every transport or decoding failure of a provider.
var ErrProviderUnavailable = errors.New("quran: content provider unavailable")

// UnitInfo describes one unit of the text.
type UnitInfo struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
	ItemCount   int    `json:"item_count"`
}

// Item is one verse as laid out on a page.
type Item struct {
	Unit     int    `json:"unit_number"`
	Position int    `json:"position_in_unit"`
	Text     string `json:"text"`
}

// Page is the content of one absolute page.
type Page struct {
	Number int    `json:"number"`
	Items  []Item `json:"items"`
}

// ContentProvider is the external source of text layout.
type ContentProvider interface {
	// Unit returns the name and verse count of a unit.
	Unit(ctx context.Context, unit int) (UnitInfo, error)

	// Locate returns the absolute page holding the given location.
	Locate(ctx context.Context, unit, position int) (int, error)

	// Page returns the verses printed on an absolute page.
	Page(ctx context.Context, page int) (Page, error)
}
