// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package genre implements the catalog's genre classification.
//
// Genres tag titles in a many-to-many fashion; every title carries at least
// one genre. Deleting a genre only removes the tagging, never the titles.
package genre

// Genre is a named, slug-addressed tag applied to titles.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"
)
