// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"time"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
	"github.com/taibuivan/revuo/pkg/uuidv7"
)

// Service implements the title catalog use cases.
type Service struct {
	repo       Repository
	categories CategoryResolver
	genres     GenreResolver
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repo Repository, categories CategoryResolver, genres GenreResolver) *Service {
	return &Service{repo: repo, categories: categories, genres: genres}
}

// # Inputs

// CreateInput holds the data required to add a title to the catalog.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// UpdateInput describes a partial title update. Nil fields are left unchanged.
// There is no full-replace operation; partial update is the only write shape.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string // nil keeps current genres; non-nil replaces them
}

// # Operations

/*
List returns a page of titles matching the filter.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - filter: Filter (category slug, genre slug, name substring, exact year)
  - params: pagination.Params

Returns:
  - []Title: The requested page with ratings hydrated
  - int: Total matching titles
  - err: Storage errors (reads are public)
*/
func (service *Service) List(ctx context.Context, caller authz.Caller, filter Filter, params pagination.Params) ([]Title, int, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindTitle), caller); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, filter, params)
}

/*
Get resolves a single title with its rating, category, and genres.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - id: string

Returns:
  - *Title: Hydrated entity
  - err: NotFound or storage errors
*/
func (service *Service) Get(ctx context.Context, caller authz.Caller, id string) (*Title, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindTitle), caller); err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, id)
}

/*
Create adds a new title to the catalog.

Description: Admin-only. The year must fall between the catalog's lower
bound and the current calendar year — no future works. At least one genre
is mandatory; the category is required and must exist.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - input: CreateInput

Returns:
  - *Title: The created title (rating starts null)
  - err: Forbidden, Validation, or storage errors
*/
func (service *Service) Create(ctx context.Context, caller authz.Caller, input CreateInput) (*Title, error) {
	if err := authz.Require(authz.Create, authz.Collection(authz.KindTitle), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLen).
		Range(FieldYear, input.Year, constants.TitleMinYear, time.Now().Year()).
		Required(FieldCategory, input.CategorySlug).
		Custom(FieldGenre, len(input.GenreSlugs) == 0, "At least one genre is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if err := service.resolveRelations(ctx, title, input.CategorySlug, input.GenreSlugs); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

/*
Update applies a partial modification to a title.

Description: Admin-only. Fields absent from the input keep their stored
values; a provided genre list replaces the taggings entirely and must not
be empty.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - id: string
  - input: UpdateInput

Returns:
  - *Title: The updated title
  - err: Forbidden, NotFound, Validation, or storage errors
*/
func (service *Service) Update(ctx context.Context, caller authz.Caller, id string, input UpdateInput) (*Title, error) {
	if err := authz.Require(authz.Update, authz.Collection(authz.KindTitle), caller); err != nil {
		return nil, err
	}

	title, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).
			MaxLen(FieldName, *input.Name, constants.NameMaxLen)
		title.Name = *input.Name
	}
	if input.Year != nil {
		validator.Range(FieldYear, *input.Year, constants.TitleMinYear, time.Now().Year())
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.GenreSlugs != nil {
		validator.Custom(FieldGenre, len(input.GenreSlugs) == 0, "At least one genre is required")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	categorySlug := ""
	if input.CategorySlug != nil {
		categorySlug = *input.CategorySlug
	} else if title.Category != nil {
		categorySlug = title.Category.Slug
	}

	genreSlugs := input.GenreSlugs
	if genreSlugs == nil {
		genreSlugs = make([]string, len(title.Genres))
		for i, taggedGenre := range title.Genres {
			genreSlugs[i] = taggedGenre.Slug
		}
	}

	if err := service.resolveRelations(ctx, title, categorySlug, genreSlugs); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

/*
Delete removes a title and, by cascade, its reviews.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - id: string

Returns:
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(ctx context.Context, caller authz.Caller, id string) error {
	if err := authz.Require(authz.Delete, authz.Collection(authz.KindTitle), caller); err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}

// resolveRelations swaps category and genre slugs for hydrated entities.
// Unknown slugs are reported as field-level validation failures, not 404s:
// they arrived in a request body, not a URL.
func (service *Service) resolveRelations(ctx context.Context, title *Title, categorySlug string, genreSlugs []string) error {
	if categorySlug != "" {
		resolved, err := service.categories.FindBySlug(ctx, categorySlug)
		if err != nil {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldCategory,
				Message: "Unknown category slug",
			})
		}
		title.Category = resolved
	} else {
		title.Category = nil
	}

	resolved, err := service.genres.FindBySlugs(ctx, genreSlugs)
	if err != nil {
		return err
	}
	if len(resolved) != len(genreSlugs) {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldGenre,
			Message: "Unknown genre slug",
		})
	}
	title.Genres = resolved

	return nil
}
