// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserLinkTable represents the 'users.link' table
type UserLinkTable struct {
	Table     string
	UserA     string
	UserB     string
	CreatedAt string
}

// UserLink is the schema definition for users.link
var UserLink = UserLinkTable{
	Table:     "users.link",
	UserA:     "usera",
	UserB:     "userb",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserLinkTable) Columns() []string {
	return []string{t.UserA, t.UserB, t.CreatedAt}
}
