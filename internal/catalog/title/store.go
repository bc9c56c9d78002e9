// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"

	"github.com/taibuivan/revuo/internal/catalog/category"
	"github.com/taibuivan/revuo/internal/catalog/genre"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// # Repository Contracts

// Repository defines the persistence contract for titles.
type Repository interface {
	// List returns a page of titles matching the filter, ordered by name,
	// with categories, genres, and ratings hydrated, plus the total count.
	List(ctx context.Context, filter Filter, params pagination.Params) ([]Title, int, error)

	// FindByID resolves a fully hydrated title by primary key.
	FindByID(ctx context.Context, id string) (*Title, error)

	// Create persists the title and its genre taggings in one transaction.
	// The title's Category and Genres must carry resolved IDs.
	Create(ctx context.Context, title *Title) error

	// Update rewrites the title row and replaces its genre taggings in one
	// transaction.
	Update(ctx context.Context, title *Title) error

	// Delete removes the title; reviews and taggings cascade.
	Delete(ctx context.Context, id string) error
}

// CategoryResolver resolves category slugs during title writes.
// Satisfied by the category package's repository.
type CategoryResolver interface {
	FindBySlug(ctx context.Context, slug string) (*category.Category, error)
}

// GenreResolver resolves genre slugs during title writes.
// Satisfied by the genre package's repository.
type GenreResolver interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]genre.Genre, error)
}
