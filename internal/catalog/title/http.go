// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revuo/internal/platform/authz"
	requestutil "github.com/taibuivan/revuo/internal/platform/request"
	"github.com/taibuivan/revuo/internal/platform/respond"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the title catalog HTTP endpoints.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] for /titles.
//
// # Endpoints
//   - GET    /          : List titles with filters (public).
//   - POST   /          : Add a title (admin).
//   - GET    /{titleID} : Resolve a title (public).
//   - PATCH  /{titleID} : Partially update a title (admin). There is no PUT.
//   - DELETE /{titleID} : Remove a title (admin).
//
// Nested review routes are mounted by the API server, not here.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{titleID}", handler.get)
	router.Patch("/{titleID}", handler.update)
	router.Delete("/{titleID}", handler.remove)

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre"`
}

/*
List returns a filtered, paginated view of the catalog.

GET /api/v1/titles?category=&genre=&name=&year=&page=&limit=

Description: All four filters combine with AND. The rating on each row is
the live review average, null when unreviewed.

Response:
  - 200: []Title + pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	params := pagination.FromRequest(request)

	query := request.URL.Query()
	year, _ := strconv.Atoi(query.Get("year"))
	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
		Year:         year,
	}

	titles, total, err := handler.titleService.List(request.Context(), caller, filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create adds a new title to the catalog.

POST /api/v1/titles

Request:
  - Body: createRequest (Name, Year, Category, Genres required)

Response:
  - 201: Title: The created title with rating null
  - 400: ErrInvalidJSON: Bad input, future year, or unknown slugs
  - 401/403: Authentication or admin role missing
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.titleService.Create(request.Context(), caller, CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
Get resolves a single title.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	title, err := handler.titleService.Get(request.Context(), caller, titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Update partially modifies a title.

PATCH /api/v1/titles/{titleID}

Description: Absent fields keep their values. A provided genre list fully
replaces the current taggings and must not be empty.

Response:
  - 200: Title: The updated title
  - 400: ErrInvalidJSON: Bad input
  - 401/403: Authentication or admin role missing
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.titleService.Update(request.Context(), caller, titleID, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Remove deletes a title and its reviews.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: No Content
  - 401/403: Authentication or admin role missing
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	titleID := requestutil.Param(request, "titleID")

	if err := handler.titleService.Delete(request.Context(), caller, titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
