// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/sec"
	"github.com/taibuivan/revuo/pkg/pagination"
)

type memoryRepository struct {
	nextID     int64
	categories []Category
}

func (r *memoryRepository) List(_ context.Context, search string, params pagination.Params) ([]Category, int, error) {
	matched := make([]Category, 0, len(r.categories))
	for _, category := range r.categories {
		if search == "" || strings.Contains(strings.ToLower(category.Name), strings.ToLower(search)) {
			matched = append(matched, category)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, len(matched), nil
}

func (r *memoryRepository) Create(_ context.Context, category *Category) error {
	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return apperr.Conflict("Slug is already in use", categoryConflicts["categories_slug_key"])
		}
	}
	r.nextID++
	category.ID = r.nextID
	r.categories = append(r.categories, *category)
	return nil
}

func (r *memoryRepository) FindBySlug(_ context.Context, slug string) (*Category, error) {
	for _, category := range r.categories {
		if category.Slug == slug {
			clone := category
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (r *memoryRepository) Delete(_ context.Context, slug string) error {
	for i, category := range r.categories {
		if category.Slug == slug {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Category")
}

var (
	adminCaller  = authz.Caller{ID: "admin-id", Role: sec.RoleAdmin, Authenticated: true}
	memberCaller = authz.Caller{ID: "member-id", Role: sec.RoleUser, Authenticated: true}
)

func TestList_PublicRead(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)
	_, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Books"})
	require.NoError(t, err)

	categories, total, err := service.List(context.Background(), authz.Anonymous(), "", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Books", categories[0].Name)
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)

	category, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", category.Slug)
}

func TestCreate_ExplicitSlugWins(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)

	category, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Films", Slug: "movies"})
	require.NoError(t, err)
	assert.Equal(t, "movies", category.Slug)
}

func TestCreate_RequiresAdmin(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)

	tests := []struct {
		name       string
		caller     authz.Caller
		wantStatus int
	}{
		{"anonymous", authz.Anonymous(), http.StatusUnauthorized},
		{"member", memberCaller, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tc.caller, CreateInput{Name: "Books"})
			require.Error(t, err)
			assert.Equal(t, tc.wantStatus, apperr.As(err).HTTPStatus)
		})
	}
}

func TestCreate_ValidatesSlugFormat(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Books", Slug: "Not A Slug"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

func TestCreate_SlugCollisionConflicts(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Books"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), adminCaller, CreateInput{Name: "More Books", Slug: "books"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
}

func TestDelete_RequiresAdmin(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(repo)
	_, err := service.Create(context.Background(), adminCaller, CreateInput{Name: "Books"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), memberCaller, "books")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	require.NoError(t, service.Delete(context.Background(), adminCaller, "books"))

	err = service.Delete(context.Background(), adminCaller, "books")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}
