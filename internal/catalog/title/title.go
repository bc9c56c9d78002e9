// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title implements the reviewable works catalog.

A title is the unit everything else hangs off: it belongs to at most one
category, carries one or more genres, and accumulates reviews whose average
score is exposed as the title's rating.

# Rating

The rating is always derived, never stored: it is the live average of the
title's review scores, and null until the first review lands.
*/
package title

import (
	"time"

	"github.com/taibuivan/revuo/internal/catalog/category"
	"github.com/taibuivan/revuo/internal/catalog/genre"
)

// # Domain Entities

// Title represents a reviewable work in the catalog.
type Title struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Description string `json:"description"`
	// Rating is the average review score, or null when no reviews exist.
	Rating *float64 `json:"rating"`
	// Category is null when the title's category was deleted.
	Category  *category.Category `json:"category"`
	Genres    []genre.Genre      `json:"genres"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)
