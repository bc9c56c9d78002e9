// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revuo/internal/platform/authz"
	requestutil "github.com/taibuivan/revuo/internal/platform/request"
	"github.com/taibuivan/revuo/internal/platform/respond"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the nested review and comment HTTP endpoints.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] meant to be mounted at
// /titles/{titleID}/reviews, so every handler resolves titleID from the URL.
//
// # Endpoints
//   - GET    /                                : List a title's reviews (public).
//   - POST   /                                : Add a review (authenticated).
//   - GET    /{reviewID}                      : Resolve a review (public).
//   - PATCH  /{reviewID}                      : Update a review (author/moderation).
//   - DELETE /{reviewID}                      : Remove a review (author/moderation).
//   - GET    /{reviewID}/comments             : List a review's comments (public).
//   - POST   /{reviewID}/comments             : Add a comment (authenticated).
//   - GET    /{reviewID}/comments/{commentID} : Resolve a comment (public).
//   - PATCH  /{reviewID}/comments/{commentID} : Update a comment (author/moderation).
//   - DELETE /{reviewID}/comments/{commentID} : Remove a comment (author/moderation).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)

	router.Route("/{reviewID}", func(review chi.Router) {
		review.Get("/", handler.getReview)
		review.Patch("/", handler.updateReview)
		review.Delete("/", handler.removeReview)

		review.Route("/comments", func(comments chi.Router) {
			comments.Get("/", handler.listComments)
			comments.Post("/", handler.createComment)
			comments.Get("/{commentID}", handler.getComment)
			comments.Patch("/{commentID}", handler.updateComment)
			comments.Delete("/{commentID}", handler.removeComment)
		})
	})

	return router
}

// # Request Payloads

type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type reviewUpdateRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// # Review Endpoints

/*
ListReviews returns a page of a title's reviews, newest first.

GET /api/v1/titles/{titleID}/reviews?page=&limit=

Response:
  - 200: []Review + pagination meta
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	params := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.ListReviews(request.Context(), caller, titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateReview adds a scored review to a title.

POST /api/v1/titles/{titleID}/reviews

Request:
  - Body: reviewRequest (Text required, Score within 1..10)

Response:
  - 201: Review
  - 400: ErrInvalidJSON: Bad input or score out of range
  - 401: Authentication missing
  - 404: ErrNotFound: Unknown title
  - 409: Caller already reviewed this title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), caller, titleID, CreateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	review, err := handler.reviewService.GetReview(request.Context(), caller, titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
UpdateReview partially modifies a review's text and/or score.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review: The updated review
  - 400: ErrInvalidJSON: Bad input
  - 401/403: Caller is neither the author nor a moderation role
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input reviewUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), caller, titleID, reviewID, UpdateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) removeReview(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	if err := handler.reviewService.DeleteReview(request.Context(), caller, titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

/*
ListComments returns a page of a review's comments, oldest first.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments?page=&limit=

Response:
  - 200: []Comment + pagination meta
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	params := pagination.FromRequest(request)

	comments, total, err := handler.reviewService.ListComments(request.Context(), caller, titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateComment adds a comment to a review.

POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments

Request:
  - Body: commentRequest (Text required)

Response:
  - 201: Comment
  - 400: ErrInvalidJSON: Bad input
  - 401: Authentication missing
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(), caller, titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	comment, err := handler.reviewService.GetComment(request.Context(), caller, titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(), caller, titleID, reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) removeComment(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")
	commentID := requestutil.Param(request, "commentID")

	if err := handler.reviewService.DeleteComment(request.Context(), caller, titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
