// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// # Review Repository

// PostgresReviewRepository implements [ReviewRepository] using pgx.
type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL implementation of [ReviewRepository].
func NewReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (repository *PostgresReviewRepository) TitleExists(ctx context.Context, titleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`

	var exists bool
	if err := repository.db.QueryRow(ctx, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_repo_title_exists")
	}
	return exists, nil
}

/*
ListByTitle returns a page of a title's reviews, newest first.

Parameters:
  - ctx: context.Context
  - titleID: string
  - params: pagination.Params

Returns:
  - []Review: The requested page with author usernames
  - int: Total reviews on the title
  - error: Execution errors
*/
func (repository *PostgresReviewRepository) ListByTitle(ctx context.Context, titleID string, params pagination.Params) ([]Review, int, error) {
	const countQuery = `SELECT count(*) FROM reviews WHERE title_id = $1`

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	const listQuery = `
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, listQuery, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]Review, 0, params.Limit)
	for rows.Next() {
		var review Review
		if err := rows.Scan(
			&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
			&review.Text, &review.Score, &review.CreatedAt, &review.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews_rows")
	}

	return reviews, total, nil
}

func (repository *PostgresReviewRepository) FindByID(ctx context.Context, titleID, reviewID string) (*Review, error) {
	const query = `
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1 AND r.title_id = $2`

	review := &Review{}
	err := repository.db.QueryRow(ctx, query, reviewID, titleID).Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_review_by_id")
	}
	return review, nil
}

func (repository *PostgresReviewRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND title_id = $2)`

	var exists bool
	if err := repository.db.QueryRow(ctx, query, authorID, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_repo_exists_check")
	}
	return exists, nil
}

/*
Create persists a new review.

Description: The one-review-per-author-per-title constraint is the final
arbiter under concurrency; its violation surfaces as the same Conflict the
service's friendly pre-check produces.

Parameters:
  - ctx: context.Context
  - review: *Review

Returns:
  - error: apperr.Conflict on duplicate, or storage errors
*/
func (repository *PostgresReviewRepository) Create(ctx context.Context, review *Review) error {
	const query = `
		INSERT INTO reviews (id, title_id, author_id, text, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING (SELECT username FROM users WHERE id = $3)`

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	err := repository.db.QueryRow(ctx, query,
		review.ID, review.TitleID, review.AuthorID, review.Text, review.Score,
		review.CreatedAt, review.UpdatedAt,
	).Scan(&review.Author)

	if err != nil {
		if _, ok := dberr.UniqueConstraint(err); ok {
			return apperr.Conflict("You have already reviewed this title")
		}
		return dberr.Wrap(err, "create_review")
	}
	return nil
}

func (repository *PostgresReviewRepository) Update(ctx context.Context, review *Review) error {
	const query = `
		UPDATE reviews SET text = $2, score = $3, updated_at = $4
		WHERE id = $1`

	review.UpdatedAt = time.Now()
	if _, err := repository.db.Exec(ctx, query, review.ID, review.Text, review.Score, review.UpdatedAt); err != nil {
		return dberr.Wrap(err, "update_review")
	}
	return nil
}

func (repository *PostgresReviewRepository) Delete(ctx context.Context, titleID, reviewID string) error {
	const query = `DELETE FROM reviews WHERE id = $1 AND title_id = $2`

	tag, err := repository.db.Exec(ctx, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// # Comment Repository

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of [CommentRepository].
func NewCommentRepository(db *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (repository *PostgresCommentRepository) ListByReview(ctx context.Context, reviewID string, params pagination.Params) ([]Comment, int, error) {
	const countQuery = `SELECT count(*) FROM comments WHERE review_id = $1`

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	const listQuery = `
		SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, listQuery, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]Comment, 0, params.Limit)
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
			&comment.Text, &comment.CreatedAt, &comment.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments_rows")
	}

	return comments, total, nil
}

func (repository *PostgresCommentRepository) FindByID(ctx context.Context, reviewID, commentID string) (*Comment, error) {
	const query = `
		SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.review_id = $2`

	comment := &Comment{}
	err := repository.db.QueryRow(ctx, query, commentID, reviewID).Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment_by_id")
	}
	return comment, nil
}

func (repository *PostgresCommentRepository) Create(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (id, review_id, author_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING (SELECT username FROM users WHERE id = $3)`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := repository.db.QueryRow(ctx, query,
		comment.ID, comment.ReviewID, comment.AuthorID, comment.Text,
		comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.Author)

	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Update(ctx context.Context, comment *Comment) error {
	const query = `UPDATE comments SET text = $2, updated_at = $3 WHERE id = $1`

	comment.UpdatedAt = time.Now()
	if _, err := repository.db.Exec(ctx, query, comment.ID, comment.Text, comment.UpdatedAt); err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Delete(ctx context.Context, reviewID, commentID string) error {
	const query = `DELETE FROM comments WHERE id = $1 AND review_id = $2`

	tag, err := repository.db.Exec(ctx, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
