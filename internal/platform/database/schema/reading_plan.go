// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReadingPlanTable represents the 'reading.plan' table
type ReadingPlanTable struct {
	Table                 string
	ID                    string
	OwnerID               string
	StartDate             string
	EndDate               string
	Status                string
	CurrentUnit           string
	CurrentPositionInUnit string
	CurrentAbsolutePage   string
	CreatedAt             string
	UpdatedAt             string
}

// ReadingPlan is the schema definition for reading.plan
var ReadingPlan = ReadingPlanTable{
	Table:                 "reading.plan",
	ID:                    "id",
	OwnerID:               "ownerid",
	StartDate:             "startdate",
	EndDate:               "enddate",
	Status:                "status",
	CurrentUnit:           "currentunit",
	CurrentPositionInUnit: "currentpositioninunit",
	CurrentAbsolutePage:   "currentabsolutepage",
	CreatedAt:             "createdat",
	UpdatedAt:             "updatedat",
}

// Columns returns all standard column names
func (t ReadingPlanTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.StartDate, t.EndDate, t.Status, t.CurrentUnit,
		t.CurrentPositionInUnit, t.CurrentAbsolutePage, t.CreatedAt, t.UpdatedAt,
	}
}
