// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingBookmarkTable represents the 'reading.bookmark' table
type ReadingBookmarkTable struct {
	Table          string
	OwnerID        string
	UnitNumber     string
	UnitName       string
	PositionInUnit string
	AbsolutePage   string
	UpdatedAt      string
}

// ReadingBookmark is the schema definition for reading.bookmark
var ReadingBookmark = ReadingBookmarkTable{
	Table:          "reading.bookmark",
	OwnerID:        "ownerid",
	UnitNumber:     "unitnumber",
	UnitName:       "unitname",
	PositionInUnit: "positioninunit",
	AbsolutePage:   "absolutepage",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t ReadingBookmarkTable) Columns() []string {
	return []string{t.OwnerID, t.UnitNumber, t.UnitName, t.PositionInUnit, t.AbsolutePage, t.UpdatedAt}
}
