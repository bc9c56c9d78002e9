// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"

	"github.com/taibuivan/revuo/pkg/pagination"
)

// Repository defines the persistence contract for genres.
type Repository interface {
	// List returns a page of genres ordered by name, optionally filtered by
	// a case-insensitive name substring, plus the total count.
	List(ctx context.Context, search string, params pagination.Params) ([]Genre, int, error)

	// Create persists a new genre. A slug collision must surface as a
	// field-identified Conflict.
	Create(ctx context.Context, genre *Genre) error

	// FindBySlugs resolves multiple genres at once, preserving no particular
	// order. Callers detect unknown slugs by comparing lengths.
	FindBySlugs(ctx context.Context, slugs []string) ([]Genre, error)

	// Delete removes a genre by slug. The tagging rows cascade; titles survive.
	Delete(ctx context.Context, slug string) error
}
