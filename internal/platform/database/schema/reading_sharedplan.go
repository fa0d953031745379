// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingSharedPlanTable represents the 'reading.sharedplan' table
type ReadingSharedPlanTable struct {
	Table                 string
	ID                    string
	PairID                string
	UserA                 string
	UserB                 string
	StartDate             string
	EndDate               string
	Status                string
	CurrentUnit           string
	CurrentPositionInUnit string
	CurrentAbsolutePage   string
	CreatedBy             string
	UpdatedBy             string
	CreatedAt             string
	UpdatedAt             string
}

// ReadingSharedPlan is the schema definition for reading.sharedplan
var ReadingSharedPlan = ReadingSharedPlanTable{
	Table:                 "reading.sharedplan",
	ID:                    "id",
	PairID:                "pairid",
	UserA:                 "usera",
	UserB:                 "userb",
	StartDate:             "startdate",
	EndDate:               "enddate",
	Status:                "status",
	CurrentUnit:           "currentunit",
	CurrentPositionInUnit: "currentpositioninunit",
	CurrentAbsolutePage:   "currentabsolutepage",
	CreatedBy:             "createdby",
	UpdatedBy:             "updatedby",
	CreatedAt:             "createdat",
	UpdatedAt:             "updatedat",
}

// Columns returns all standard column names
func (t ReadingSharedPlanTable) Columns() []string {
	return []string{
		t.ID, t.PairID, t.UserA, t.UserB, t.StartDate, t.EndDate, t.Status,
		t.CurrentUnit, t.CurrentPositionInUnit, t.CurrentAbsolutePage,
		t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
