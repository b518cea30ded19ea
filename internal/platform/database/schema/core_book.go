// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreBookTable represents the 'books' table
type CoreBookTable struct {
	Table           string
	ID              string
	Title           string
	PublicationYear string
	ISBN            string
	AuthorID        string
	CreatedAt       string
	UpdatedAt       string
}

// CoreBook is the schema definition for books
var CoreBook = CoreBookTable{
	Table:           "books",
	ID:              "id",
	Title:           "title",
	PublicationYear: "publication_year",
	ISBN:            "isbn",
	AuthorID:        "author_id",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

func (t CoreBookTable) Columns() []string {
	return []string{t.ID, t.Title, t.PublicationYear, t.ISBN, t.AuthorID}
}
