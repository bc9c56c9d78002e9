// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"github.com/taibuivan/revuo/pkg/pagination"
)

// Repository defines the persistence contract for categories.
type Repository interface {
	// List returns a page of categories ordered by name, optionally filtered
	// by a case-insensitive name substring, plus the total count.
	List(ctx context.Context, search string, params pagination.Params) ([]Category, int, error)

	// Create persists a new category. A slug collision must surface as a
	// field-identified Conflict.
	Create(ctx context.Context, category *Category) error

	// FindBySlug resolves a category by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// Delete removes a category by slug. Titles referencing it keep existing
	// with a detached category.
	Delete(ctx context.Context, slug string) error
}
