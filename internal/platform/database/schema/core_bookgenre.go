// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreBookGenreTable represents the 'book_genre' association table
type CoreBookGenreTable struct {
	Table   string
	BookID  string
	GenreID string
}

// CoreBookGenre is the schema definition for book_genre
var CoreBookGenre = CoreBookGenreTable{
	Table:   "book_genre",
	BookID:  "book_id",
	GenreID: "genre_id",
}
