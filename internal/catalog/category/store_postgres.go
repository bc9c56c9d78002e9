// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
	"github.com/taibuivan/revuo/pkg/pagination"
)

var categoryConflicts = map[string]apperr.FieldError{
	"categories_slug_key": {Field: FieldSlug, Message: "Slug is already in use"},
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(ctx context.Context, search string, params pagination.Params) ([]Category, int, error) {
	const countQuery = `
		SELECT count(*) FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	const listQuery = `
		SELECT id, name, slug FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, listQuery, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]Category, 0, params.Limit)
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories_rows")
	}

	return categories, total, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, category *Category) error {
	const query = `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id`

	err := repository.db.QueryRow(ctx, query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		if conflict, ok := dberr.ConflictOn(err, categoryConflicts); ok {
			return conflict
		}
		return dberr.Wrap(err, "create_category")
	}
	return nil
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	const query = `SELECT id, name, slug FROM categories WHERE slug = $1`

	category := &Category{}
	if err := repository.db.QueryRow(ctx, query, slug).Scan(&category.ID, &category.Name, &category.Slug); err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}
	return category, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, slug string) error {
	// ON DELETE SET NULL on titles.category_id detaches titles automatically.
	const query = `DELETE FROM categories WHERE slug = $1`

	tag, err := repository.db.Exec(ctx, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}
