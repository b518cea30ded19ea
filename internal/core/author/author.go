// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

// Author represents the writer of one or more books.
type Author struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio"`
}

// Input is the writable subset of an author, mapped field by field from requests.
type Input struct {
	Name string
	Bio  *string
}

// Global field names for validation
const (
	FieldName = "name"
	FieldBio  = "bio"
)

const (
	nameMaxLength = 200
	bioMaxLength  = 5000
)

// Client-safe messages
const (
	MessageNameTaken = "Author with this name already exists"
	MessageHasBooks  = "Author still has books and cannot be deleted"
)
