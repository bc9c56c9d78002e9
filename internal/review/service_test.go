// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/sec"
	"github.com/taibuivan/revuo/pkg/pagination"
	"github.com/taibuivan/revuo/pkg/pointer"
)

// # Test Doubles

// memoryReviewRepository guards its maps with a mutex so the concurrent
// double-create test exercises the same race the database constraint
// settles in production.
type memoryReviewRepository struct {
	mu      sync.Mutex
	titles  map[string]bool
	reviews map[string]*Review
}

func newMemoryReviewRepository(titleIDs ...string) *memoryReviewRepository {
	titles := map[string]bool{}
	for _, id := range titleIDs {
		titles[id] = true
	}
	return &memoryReviewRepository{titles: titles, reviews: map[string]*Review{}}
}

func (r *memoryReviewRepository) TitleExists(_ context.Context, titleID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.titles[titleID], nil
}

func (r *memoryReviewRepository) ListByTitle(_ context.Context, titleID string, _ pagination.Params) ([]Review, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]Review, 0)
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			matched = append(matched, *review)
		}
	}
	return matched, len(matched), nil
}

func (r *memoryReviewRepository) FindByID(_ context.Context, titleID, reviewID string) (*Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *review
	return &clone, nil
}

func (r *memoryReviewRepository) ExistsByAuthorAndTitle(_ context.Context, authorID, titleID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, review := range r.reviews {
		if review.AuthorID == authorID && review.TitleID == titleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryReviewRepository) Create(_ context.Context, review *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.AuthorID == review.AuthorID && existing.TitleID == review.TitleID {
			return apperr.Conflict("You have already reviewed this title")
		}
	}
	review.Author = "user-" + review.AuthorID
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *memoryReviewRepository) Update(_ context.Context, review *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return apperr.NotFound("Review")
	}
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *memoryReviewRepository) Delete(_ context.Context, titleID, reviewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(r.reviews, reviewID)
	return nil
}

type memoryCommentRepository struct {
	mu       sync.Mutex
	comments map[string]*Comment
}

func newMemoryCommentRepository() *memoryCommentRepository {
	return &memoryCommentRepository{comments: map[string]*Comment{}}
}

func (r *memoryCommentRepository) ListByReview(_ context.Context, reviewID string, _ pagination.Params) ([]Comment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]Comment, 0)
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			matched = append(matched, *comment)
		}
	}
	return matched, len(matched), nil
}

func (r *memoryCommentRepository) FindByID(_ context.Context, reviewID, commentID string) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *comment
	return &clone, nil
}

func (r *memoryCommentRepository) Create(_ context.Context, comment *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.Author = "user-" + comment.AuthorID
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memoryCommentRepository) Update(_ context.Context, comment *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memoryCommentRepository) Delete(_ context.Context, reviewID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(r.comments, commentID)
	return nil
}

// # Fixtures

const titleID = "title-1"

var (
	author    = authz.Caller{ID: "author-id", Role: sec.RoleUser, Authenticated: true}
	other     = authz.Caller{ID: "other-id", Role: sec.RoleUser, Authenticated: true}
	moderator = authz.Caller{ID: "moderator-id", Role: sec.RoleModerator, Authenticated: true}
	admin     = authz.Caller{ID: "admin-id", Role: sec.RoleAdmin, Authenticated: true}
)

func newFixture() (*Service, *memoryReviewRepository, *memoryCommentRepository) {
	reviews := newMemoryReviewRepository(titleID)
	comments := newMemoryCommentRepository()
	return NewService(reviews, comments), reviews, comments
}

func seedReview(t *testing.T, service *Service, caller authz.Caller) *Review {
	t.Helper()
	review, err := service.CreateReview(context.Background(), caller, titleID, CreateReviewInput{
		Text:  "A dazzling, savage satire.",
		Score: 9,
	})
	require.NoError(t, err)
	return review
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	return appError.HTTPStatus
}

// # Reviews

func TestCreateReview_HydratesAuthor(t *testing.T) {
	service, _, _ := newFixture()

	review := seedReview(t, service, author)
	assert.Equal(t, "user-author-id", review.Author)
	assert.Equal(t, 9, review.Score)
}

func TestCreateReview_RequiresAuthentication(t *testing.T) {
	service, _, _ := newFixture()

	_, err := service.CreateReview(context.Background(), authz.Anonymous(), titleID, CreateReviewInput{
		Text:  "anonymous opinion",
		Score: 5,
	})
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	tests := []struct {
		name  string
		score int
		valid bool
	}{
		{"below minimum", 0, false},
		{"minimum", 1, true},
		{"maximum", 10, true},
		{"above maximum", 11, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newFixture()
			_, err := service.CreateReview(context.Background(), author, titleID, CreateReviewInput{
				Text:  "scored opinion",
				Score: tc.score,
			})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
			}
		})
	}
}

func TestCreateReview_UnknownTitleIsNotFound(t *testing.T) {
	service, _, _ := newFixture()

	_, err := service.CreateReview(context.Background(), author, "missing-title", CreateReviewInput{
		Text:  "lost opinion",
		Score: 7,
	})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestCreateReview_SecondReviewIsConflict(t *testing.T) {
	service, _, _ := newFixture()
	seedReview(t, service, author)

	_, err := service.CreateReview(context.Background(), author, titleID, CreateReviewInput{
		Text:  "changed my mind",
		Score: 3,
	})
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

// Two submissions race past the friendly pre-check; the repository's
// uniqueness guarantee must let exactly one through.
func TestCreateReview_ConcurrentDoubleCreate(t *testing.T) {
	service, repo, _ := newFixture()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = service.CreateReview(context.Background(), author, titleID, CreateReviewInput{
				Text:  "racing opinion",
				Score: 8,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, repo.reviews, 1)
}

func TestUpdateReview_OwnershipMatrix(t *testing.T) {
	tests := []struct {
		name   string
		caller authz.Caller
		status int
	}{
		{"author", author, 0},
		{"moderator", moderator, 0},
		{"admin", admin, 0},
		{"other member", other, http.StatusForbidden},
		{"anonymous", authz.Anonymous(), http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newFixture()
			review := seedReview(t, service, author)

			updated, err := service.UpdateReview(context.Background(), tc.caller, titleID, review.ID, UpdateReviewInput{
				Text: pointer.To("revised opinion"),
			})
			if tc.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "revised opinion", updated.Text)
				assert.Equal(t, 9, updated.Score)
			} else {
				assert.Equal(t, tc.status, httpStatus(t, err))
			}
		})
	}
}

func TestUpdateReview_ScoreOutOfRangeRejected(t *testing.T) {
	service, _, _ := newFixture()
	review := seedReview(t, service, author)

	_, err := service.UpdateReview(context.Background(), author, titleID, review.ID, UpdateReviewInput{
		Score: pointer.To(12),
	})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestDeleteReview_OwnershipMatrix(t *testing.T) {
	tests := []struct {
		name   string
		caller authz.Caller
		status int
	}{
		{"author", author, 0},
		{"moderator", moderator, 0},
		{"other member", other, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newFixture()
			review := seedReview(t, service, author)

			err := service.DeleteReview(context.Background(), tc.caller, titleID, review.ID)
			if tc.status == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.status, httpStatus(t, err))
			}
		})
	}
}

func TestGetReview_WrongParentTitleIsNotFound(t *testing.T) {
	service, repo, _ := newFixture()
	repo.titles["title-2"] = true
	review := seedReview(t, service, author)

	_, err := service.GetReview(context.Background(), authz.Anonymous(), "title-2", review.ID)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestListReviews_UnknownTitleIsNotFound(t *testing.T) {
	service, _, _ := newFixture()

	_, _, err := service.ListReviews(context.Background(), authz.Anonymous(), "missing-title", pagination.Params{Page: 1, Limit: 20})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

// # Comments

func seedComment(t *testing.T, service *Service, caller authz.Caller, reviewID string) *Comment {
	t.Helper()
	comment, err := service.CreateComment(context.Background(), caller, titleID, reviewID, "Completely agree.")
	require.NoError(t, err)
	return comment
}

func TestCreateComment_RequiresAuthentication(t *testing.T) {
	service, _, _ := newFixture()
	review := seedReview(t, service, author)

	_, err := service.CreateComment(context.Background(), authz.Anonymous(), titleID, review.ID, "drive-by remark")
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestCreateComment_EmptyTextRejected(t *testing.T) {
	service, _, _ := newFixture()
	review := seedReview(t, service, author)

	_, err := service.CreateComment(context.Background(), other, titleID, review.ID, "")
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestCreateComment_UnknownReviewIsNotFound(t *testing.T) {
	service, _, _ := newFixture()

	_, err := service.CreateComment(context.Background(), other, titleID, "missing-review", "orphan remark")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestUpdateComment_OwnershipMatrix(t *testing.T) {
	tests := []struct {
		name   string
		caller authz.Caller
		status int
	}{
		{"comment author", other, 0},
		{"moderator", moderator, 0},
		{"admin", admin, 0},
		{"review author but not comment author", author, http.StatusForbidden},
		{"anonymous", authz.Anonymous(), http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newFixture()
			review := seedReview(t, service, author)
			comment := seedComment(t, service, other, review.ID)

			updated, err := service.UpdateComment(context.Background(), tc.caller, titleID, review.ID, comment.ID, "edited remark")
			if tc.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "edited remark", updated.Text)
			} else {
				assert.Equal(t, tc.status, httpStatus(t, err))
			}
		})
	}
}

func TestDeleteComment_AuthorAndModeration(t *testing.T) {
	service, _, _ := newFixture()
	review := seedReview(t, service, author)
	comment := seedComment(t, service, other, review.ID)

	err := service.DeleteComment(context.Background(), author, titleID, review.ID, comment.ID)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	require.NoError(t, service.DeleteComment(context.Background(), other, titleID, review.ID, comment.ID))
}

func TestGetComment_WrongParentReviewIsNotFound(t *testing.T) {
	service, _, _ := newFixture()
	first := seedReview(t, service, author)
	second, err := service.CreateReview(context.Background(), other, titleID, CreateReviewInput{
		Text:  "a different take",
		Score: 4,
	})
	require.NoError(t, err)

	comment := seedComment(t, service, moderator, first.ID)

	_, err = service.GetComment(context.Background(), authz.Anonymous(), titleID, second.ID, comment.ID)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestListComments_ScopedToReview(t *testing.T) {
	service, _, _ := newFixture()
	review := seedReview(t, service, author)
	seedComment(t, service, other, review.ID)
	seedComment(t, service, moderator, review.ID)

	comments, total, err := service.ListComments(context.Background(), authz.Anonymous(), titleID, review.ID, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, comments, 2)
}
