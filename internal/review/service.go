// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
	"github.com/taibuivan/revuo/pkg/uuidv7"
)

// Service implements the review and comment use cases.
//
// Ownership decisions are delegated to the authz engine: the service loads
// the record, states who owns it, and lets [authz.Require] answer.
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(reviews ReviewRepository, comments CommentRepository) *Service {
	return &Service{reviews: reviews, comments: comments}
}

// # Inputs

// CreateReviewInput holds the data for a new review.
type CreateReviewInput struct {
	Text  string
	Score int
}

// UpdateReviewInput describes a partial review update.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

// # Reviews

/*
ListReviews returns a page of a title's reviews.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - titleID: string
  - params: pagination.Params

Returns:
  - []Review: The requested page, newest first
  - int: Total reviews on the title
  - err: NotFound for unknown titles, or storage errors
*/
func (service *Service) ListReviews(ctx context.Context, caller authz.Caller, titleID string, params pagination.Params) ([]Review, int, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindReview), caller); err != nil {
		return nil, 0, err
	}
	if err := service.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return service.reviews.ListByTitle(ctx, titleID, params)
}

/*
CreateReview attaches a new scored review to a title.

Description: Any authenticated member may review; a second review on the
same title by the same author is a Conflict. The friendly existence check
runs first, and the database uniqueness constraint settles races.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - titleID: string
  - input: CreateReviewInput

Returns:
  - *Review: The created review with the author's username hydrated
  - err: Unauthorized, NotFound, Validation, Conflict, or storage errors
*/
func (service *Service) CreateReview(ctx context.Context, caller authz.Caller, titleID string, input CreateReviewInput) (*Review, error) {
	if err := authz.Require(authz.Create, authz.Collection(authz.KindReview), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		Range(FieldScore, input.Score, constants.ScoreMin, constants.ScoreMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := service.reviews.ExistsByAuthorAndTitle(ctx, caller.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("You have already reviewed this title")
	}

	review := &Review{
		ID:       uuidv7.New(),
		TitleID:  titleID,
		AuthorID: caller.ID,
		Text:     input.Text,
		Score:    input.Score,
	}

	if err := service.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetReview resolves a single review under a title.
func (service *Service) GetReview(ctx context.Context, caller authz.Caller, titleID, reviewID string) (*Review, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindReview), caller); err != nil {
		return nil, err
	}
	return service.reviews.FindByID(ctx, titleID, reviewID)
}

/*
UpdateReview modifies a review's text and/or score.

Description: Permitted for the review's author and the moderation roles.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - titleID, reviewID: string
  - input: UpdateReviewInput

Returns:
  - *Review: The updated review
  - err: Unauthorized/Forbidden, NotFound, Validation, or storage errors
*/
func (service *Service) UpdateReview(ctx context.Context, caller authz.Caller, titleID, reviewID string, input UpdateReviewInput) (*Review, error) {
	review, err := service.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.Require(authz.Update, authz.OwnedBy(authz.KindReview, review.AuthorID), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
		review.Text = *input.Text
	}
	if input.Score != nil {
		validator.Range(FieldScore, *input.Score, constants.ScoreMin, constants.ScoreMax)
		review.Score = *input.Score
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

/*
DeleteReview removes a review and, by cascade, its comments.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - titleID, reviewID: string

Returns:
  - err: Unauthorized/Forbidden, NotFound, or storage errors
*/
func (service *Service) DeleteReview(ctx context.Context, caller authz.Caller, titleID, reviewID string) error {
	review, err := service.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.Require(authz.Delete, authz.OwnedBy(authz.KindReview, review.AuthorID), caller); err != nil {
		return err
	}

	return service.reviews.Delete(ctx, titleID, reviewID)
}

// # Comments

// ListComments returns a page of a review's comments, oldest first.
func (service *Service) ListComments(ctx context.Context, caller authz.Caller, titleID, reviewID string, params pagination.Params) ([]Comment, int, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindComment), caller); err != nil {
		return nil, 0, err
	}
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.comments.ListByReview(ctx, reviewID, params)
}

/*
CreateComment attaches a new comment to a review.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - titleID, reviewID: string
  - text: string

Returns:
  - *Comment: The created comment with the author's username hydrated
  - err: Unauthorized, NotFound, Validation, or storage errors
*/
func (service *Service) CreateComment(ctx context.Context, caller authz.Caller, titleID, reviewID, text string) (*Comment, error) {
	if err := authz.Require(authz.Create, authz.Collection(authz.KindComment), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuidv7.New(),
		ReviewID: reviewID,
		AuthorID: caller.ID,
		Text:     text,
	}

	if err := service.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment resolves a single comment under a review.
func (service *Service) GetComment(ctx context.Context, caller authz.Caller, titleID, reviewID, commentID string) (*Comment, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindComment), caller); err != nil {
		return nil, err
	}
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.comments.FindByID(ctx, reviewID, commentID)
}

// UpdateComment modifies a comment's text. Author and moderation roles only.
func (service *Service) UpdateComment(ctx context.Context, caller authz.Caller, titleID, reviewID, commentID, text string) (*Comment, error) {
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.Require(authz.Update, authz.OwnedBy(authz.KindComment, comment.AuthorID), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Author and moderation roles only.
func (service *Service) DeleteComment(ctx context.Context, caller authz.Caller, titleID, reviewID, commentID string) error {
	if _, err := service.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authz.Require(authz.Delete, authz.OwnedBy(authz.KindComment, comment.AuthorID), caller); err != nil {
		return err
	}

	return service.comments.Delete(ctx, reviewID, commentID)
}

// requireTitle maps a missing parent title to a 404.
func (service *Service) requireTitle(ctx context.Context, titleID string) error {
	exists, err := service.reviews.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
