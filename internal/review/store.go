// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/revuo/pkg/pagination"
)

// # Repository Contracts

// ReviewRepository defines the persistence contract for reviews.
//
// All single-review lookups are scoped to a title so the nested route
// /titles/{titleID}/reviews/{reviewID} can never leak a review through the
// wrong parent.
type ReviewRepository interface {
	// TitleExists reports whether the parent title exists.
	TitleExists(ctx context.Context, titleID string) (bool, error)

	// ListByTitle returns a page of a title's reviews, newest first, with
	// author usernames hydrated, plus the total count.
	ListByTitle(ctx context.Context, titleID string, params pagination.Params) ([]Review, int, error)

	// FindByID resolves a review under the given title.
	FindByID(ctx context.Context, titleID, reviewID string) (*Review, error)

	// ExistsByAuthorAndTitle reports whether the author already reviewed
	// the title.
	ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID string) (bool, error)

	// Create persists a new review. A second review by the same author on
	// the same title must surface as a Conflict.
	Create(ctx context.Context, review *Review) error

	// Update persists the review's text and score.
	Update(ctx context.Context, review *Review) error

	// Delete removes a review under the given title; its comments cascade.
	Delete(ctx context.Context, titleID, reviewID string) error
}

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {
	// ListByReview returns a page of a review's comments, oldest first,
	// with author usernames hydrated, plus the total count.
	ListByReview(ctx context.Context, reviewID string, params pagination.Params) ([]Comment, int, error)

	// FindByID resolves a comment under the given review.
	FindByID(ctx context.Context, reviewID, commentID string) (*Comment, error)

	// Create persists a new comment.
	Create(ctx context.Context, comment *Comment) error

	// Update persists the comment's text.
	Update(ctx context.Context, comment *Comment) error

	// Delete removes a comment under the given review.
	Delete(ctx context.Context, reviewID, commentID string) error
}
