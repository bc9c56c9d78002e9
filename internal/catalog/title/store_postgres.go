// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/catalog/category"
	"github.com/taibuivan/revuo/internal/catalog/genre"
	"github.com/taibuivan/revuo/internal/platform/dberr"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// titleFilterClause is shared by the count and list queries so both always
// agree on what matches. Parameters: $1 category slug, $2 genre slug,
// $3 name substring, $4 exact year (0 disables).
const titleFilterClause = `
	($1 = '' OR c.slug = $1)
	AND ($2 = '' OR EXISTS (
		SELECT 1 FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = t.id AND g.slug = $2))
	AND ($3 = '' OR t.name ILIKE '%' || $3 || '%')
	AND ($4 = 0 OR t.year = $4)`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List returns a page of titles matching the filter.

Description: One aggregate query hydrates rows, categories, and ratings;
a second query batch-loads the genres for the returned page (two queries
total regardless of page size).

Parameters:
  - ctx: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Title: The requested page, ordered by name
  - int: Total matching titles
  - error: Execution errors
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, params pagination.Params) ([]Title, int, error) {
	const countQuery = `
		SELECT count(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE ` + titleFilterClause

	var total int
	err := repository.db.QueryRow(ctx, countQuery,
		filter.CategorySlug, filter.GenreSlug, filter.Name, filter.Year,
	).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	const listQuery = `
		SELECT t.id, t.name, t.year, t.description, t.created_at, t.updated_at,
		       c.id, c.name, c.slug,
		       AVG(r.score)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN reviews r ON r.title_id = t.id
		WHERE ` + titleFilterClause + `
		GROUP BY t.id, c.id
		ORDER BY t.name
		LIMIT $5 OFFSET $6`

	rows, err := repository.db.Query(ctx, listQuery,
		filter.CategorySlug, filter.GenreSlug, filter.Name, filter.Year,
		params.Limit, params.Offset(),
	)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]Title, 0, params.Limit)
	for rows.Next() {
		title, err := scanTitle(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, *title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles_rows")
	}

	if err := repository.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

/*
FindByID resolves a fully hydrated title.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Title: Title with category, genres, and rating attached
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Title, error) {
	const query = `
		SELECT t.id, t.name, t.year, t.description, t.created_at, t.updated_at,
		       c.id, c.name, c.slug,
		       AVG(r.score)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN reviews r ON r.title_id = t.id
		WHERE t.id = $1
		GROUP BY t.id, c.id`

	row := repository.db.QueryRow(ctx, query, id)
	title, err := scanTitle(row.Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_title_by_id")
	}

	page := []Title{*title}
	if err := repository.attachGenres(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

/*
Create persists the title and its genre taggings atomically.

Parameters:
  - ctx: context.Context
  - title: *Title (Category and Genres must carry resolved IDs)

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Create(ctx context.Context, title *Title) error {
	now := time.Now()
	title.CreatedAt = now
	title.UpdatedAt = now

	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "create_title_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTitle = `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, insertTitle,
		title.ID, title.Name, title.Year, title.Description, categoryID(title), title.CreatedAt, title.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_title")
	}

	const insertTagging = `INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)`
	for _, taggedGenre := range title.Genres {
		if _, err := tx.Exec(ctx, insertTagging, title.ID, taggedGenre.ID); err != nil {
			return dberr.Wrap(err, "create_title_genre")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "create_title_commit")
	}
	return nil
}

/*
Update rewrites the title row and replaces its genre taggings atomically.

Parameters:
  - ctx: context.Context
  - title: *Title

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Update(ctx context.Context, title *Title) error {
	title.UpdatedAt = time.Now()

	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "update_title_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateTitle = `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1`

	_, err = tx.Exec(ctx, updateTitle,
		title.ID, title.Name, title.Year, title.Description, categoryID(title), title.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_title")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, title.ID); err != nil {
		return dberr.Wrap(err, "update_title_clear_genres")
	}

	const insertTagging = `INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)`
	for _, taggedGenre := range title.Genres {
		if _, err := tx.Exec(ctx, insertTagging, title.ID, taggedGenre.ID); err != nil {
			return dberr.Wrap(err, "update_title_genre")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "update_title_commit")
	}
	return nil
}

/*
Delete removes a title; its reviews and taggings cascade.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM titles WHERE id = $1`

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// attachGenres batch-loads the genres for a page of titles.
func (repository *PostgresRepository) attachGenres(ctx context.Context, titles []Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, len(titles))
	index := make(map[string]*Title, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
		titles[i].Genres = make([]genre.Genre, 0, 2)
		index[titles[i].ID] = &titles[i]
	}

	const query = `
		SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name`

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "attach_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		var taggedGenre genre.Genre
		if err := rows.Scan(&titleID, &taggedGenre.ID, &taggedGenre.Name, &taggedGenre.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if owner, ok := index[titleID]; ok {
			owner.Genres = append(owner.Genres, taggedGenre)
		}
	}
	return dberr.Wrap(rows.Err(), "attach_title_genres_rows")
}

// scanTitle hydrates one aggregate row, handling the nullable category and rating.
func scanTitle(scan func(dest ...any) error) (*Title, error) {
	title := &Title{}
	var catID *int64
	var catName, catSlug *string

	err := scan(
		&title.ID, &title.Name, &title.Year, &title.Description, &title.CreatedAt, &title.UpdatedAt,
		&catID, &catName, &catSlug,
		&title.Rating,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		title.Category = &category.Category{ID: *catID, Name: *catName, Slug: *catSlug}
	}
	return title, nil
}

// categoryID returns the nullable FK value for the title's category.
func categoryID(title *Title) *int64 {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}
