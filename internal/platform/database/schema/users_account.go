// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	IsActive  string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users
var UserAccount = UserAccountTable{
	Table:     "users",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Password:  "hashed_password",
	IsActive:  "is_active",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns the columns scanned into an account
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Password, t.IsActive}
}
