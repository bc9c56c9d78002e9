// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
	"github.com/taibuivan/revuo/pkg/pagination"
)

var genreConflicts = map[string]apperr.FieldError{
	"genres_slug_key": {Field: FieldSlug, Message: "Slug is already in use"},
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(ctx context.Context, search string, params pagination.Params) ([]Genre, int, error) {
	const countQuery = `
		SELECT count(*) FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	const listQuery = `
		SELECT id, name, slug FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, listQuery, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]Genre, 0, params.Limit)
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres_rows")
	}

	return genres, total, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, genre *Genre) error {
	const query = `
		INSERT INTO genres (name, slug)
		VALUES ($1, $2)
		RETURNING id`

	err := repository.db.QueryRow(ctx, query, genre.Name, genre.Slug).Scan(&genre.ID)
	if err != nil {
		if conflict, ok := dberr.ConflictOn(err, genreConflicts); ok {
			return conflict
		}
		return dberr.Wrap(err, "create_genre")
	}
	return nil
}

func (repository *PostgresRepository) FindBySlugs(ctx context.Context, slugs []string) ([]Genre, error) {
	const query = `SELECT id, name, slug FROM genres WHERE slug = ANY($1)`

	rows, err := repository.db.Query(ctx, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genres_by_slugs")
	}
	defer rows.Close()

	genres := make([]Genre, 0, len(slugs))
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "get_genres_by_slugs_rows")
	}

	return genres, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, slug string) error {
	// ON DELETE CASCADE on title_genres removes only the tagging rows.
	const query = `DELETE FROM genres WHERE slug = $1`

	tag, err := repository.db.Exec(ctx, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}
	return nil
}
