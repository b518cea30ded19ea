// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreGenreTable represents the 'genres' table
type CoreGenreTable struct {
	Table     string
	ID        string
	Name      string
	NameKey   string
	CreatedAt string
}

// CoreGenre is the schema definition for genres
var CoreGenre = CoreGenreTable{
	Table:     "genres",
	ID:        "id",
	Name:      "name",
	NameKey:   "name_key",
	CreatedAt: "created_at",
}
