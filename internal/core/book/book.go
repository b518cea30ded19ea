// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages the catalog's books, their genre tags, and the
top-rated ranking computed from reviews.

Every book belongs to exactly one author; the author must exist when the
book is written. Genre tags are replaced as a whole on every write.
*/
package book

import "regexp"

// GenreRef is the compact genre form embedded in a book.
type GenreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is a catalog entry.
type Book struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	PublicationYear int        `json:"publication_year"`
	ISBN            string     `json:"isbn"`
	AuthorID        int64      `json:"author_id"`
	Genres          []GenreRef `json:"genres"`
}

// RankedBook is a book together with the review aggregate it was ranked by.
type RankedBook struct {
	Book
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Input is the writable subset of a book.
type Input struct {
	Title           string
	PublicationYear int
	ISBN            string
	AuthorID        int64
	GenreIDs        []int64
}

// Global field names for validation
const (
	FieldTitle           = "title"
	FieldPublicationYear = "publication_year"
	FieldISBN            = "isbn"
	FieldAuthorID        = "author_id"
	FieldGenreIDs        = "genre_ids"
	FieldLimit           = "limit"
)

const titleMaxLength = 500

// Ranking bounds for the top-rated query.
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// isbnPattern is three digits, a hyphen, then ten digits.
var isbnPattern = regexp.MustCompile(`^\d{3}-\d{10}$`)

// Client-safe messages
const (
	MessageISBNTaken = "Book with this ISBN already exists"
)

// ClampRankingLimit bounds limit to [1, MaxRankingLimit]; zero selects the default.
func ClampRankingLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultRankingLimit
	case limit < 1:
		return 1
	case limit > MaxRankingLimit:
		return MaxRankingLimit
	}
	return limit
}
