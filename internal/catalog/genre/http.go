// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/revuo/internal/platform/authz"
	requestutil "github.com/taibuivan/revuo/internal/platform/request"
	"github.com/taibuivan/revuo/internal/platform/respond"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /genres.
//
// # Endpoints
//   - GET    /        : List genres (public).
//   - POST   /        : Create a genre (admin).
//   - DELETE /{slug}  : Remove a genre (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.remove)

	return router
}

type createRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	genres, total, err := handler.service.List(request.Context(), caller, search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	genre, err := handler.service.Create(request.Context(), caller, CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	genreSlug := requestutil.Param(request, "slug")

	if err := handler.service.Delete(request.Context(), caller, genreSlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
