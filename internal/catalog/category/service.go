// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
	"github.com/taibuivan/revuo/pkg/slug"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the data required to add a category.
// An empty Slug is derived from the Name.
type CreateInput struct {
	Name string
	Slug string
}

// List returns a page of categories. Readable by anyone, including anonymous callers.
func (service *Service) List(ctx context.Context, caller authz.Caller, search string, params pagination.Params) ([]Category, int, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindCategory), caller); err != nil {
		return nil, 0, err
	}
	return service.repo.List(ctx, search, params)
}

// Create adds a new category. Admin only.
func (service *Service) Create(ctx context.Context, caller authz.Caller, input CreateInput) (*Category, error) {
	if err := authz.Require(authz.Create, authz.Collection(authz.KindCategory), caller); err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLen).
		Required(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, constants.SlugMaxLen).
		Slug(FieldSlug, input.Slug)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	category := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category by slug. Admin only. Titles referencing the
// category survive with a detached category.
func (service *Service) Delete(ctx context.Context, caller authz.Caller, categorySlug string) error {
	if err := authz.Require(authz.Delete, authz.Collection(authz.KindCategory), caller); err != nil {
		return err
	}
	return service.repo.Delete(ctx, categorySlug)
}
