// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreAuthorTable represents the 'authors' table
type CoreAuthorTable struct {
	Table     string
	ID        string
	Name      string
	Bio       string
	CreatedAt string
	UpdatedAt string
}

// CoreAuthor is the schema definition for authors
var CoreAuthor = CoreAuthorTable{
	Table:     "authors",
	ID:        "id",
	Name:      "name",
	Bio:       "bio",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t CoreAuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.Bio}
}
