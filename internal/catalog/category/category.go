// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category implements the catalog's category classification.
//
// Categories partition titles into broad kinds ("Books", "Films", "Music").
// A title references at most one category; deleting a category detaches its
// titles instead of removing them.
package category

// Category is a named, slug-addressed classification bucket.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"
)
