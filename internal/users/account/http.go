// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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

// Handler implements the profile and user-management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - GET    /me         : Caller's own profile.
//   - PATCH  /me         : Partial self-update (role read-only).
//   - GET    /           : List accounts (admin).
//   - POST   /           : Provision an account (admin).
//   - GET    /{username} : Resolve an account (admin).
//   - PATCH  /{username} : Modify an account, including role (admin).
//   - DELETE /{username} : Remove an account (admin).
//
// Permission checks happen in the service layer; anonymous requests receive
// 401 and insufficient roles receive 403 from the authz engine.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.me)
	router.Patch("/me", handler.updateMe)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{username}", handler.get)
	router.Patch("/{username}", handler.update)
	router.Delete("/{username}", handler.remove)

	return router
}

// # Request Payloads

type createRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r updateRequest) toInput() UpdateInput {
	return UpdateInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

/*
Me returns the caller's own profile.

GET /api/v1/users/me

Response:
  - 200: Account: The caller's profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))

	account, err := handler.accountService.Me(request.Context(), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
UpdateMe partially updates the caller's own profile.

PATCH /api/v1/users/me

Description: Applies only the fields present in the body. The role field is
rejected outright on this endpoint, for every caller.

Request:
  - Body: updateRequest (all fields optional)

Response:
  - 200: Account: The updated profile
  - 400: ErrInvalidJSON: Bad input or role present in body
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Username or email already taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.accountService.UpdateMe(request.Context(), caller, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
List returns a page of accounts.

GET /api/v1/users?search=&page=&limit=

Response:
  - 200: []Account + pagination meta
  - 401/403: Authentication or admin role missing
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	accounts, total, err := handler.accountService.List(request.Context(), caller, search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create provisions a new account.

POST /api/v1/users

Request:
  - Body: createRequest (Username, Email required; Role optional)

Response:
  - 201: Account: The provisioned account
  - 400: ErrInvalidJSON: Bad input
  - 401/403: Authentication or admin role missing
  - 409: ErrConflict: Username or email already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.accountService.Create(request.Context(), caller, CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
Get resolves an account by username.

GET /api/v1/users/{username}

Response:
  - 200: Account
  - 401/403: Authentication or admin role missing
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	account, err := handler.accountService.Get(request.Context(), caller, username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
Update partially modifies an account, including its role.

PATCH /api/v1/users/{username}

Response:
  - 200: Account: The updated account
  - 400: ErrInvalidJSON: Bad input
  - 401/403: Authentication or admin role missing
  - 404: ErrNotFound: Unknown username
  - 409: ErrConflict: Username or email already taken
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	account, err := handler.accountService.Update(request.Context(), caller, username, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
Remove permanently deletes an account.

DELETE /api/v1/users/{username}

Response:
  - 204: No Content
  - 401/403: Authentication or admin role missing
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	caller := authz.FromClaims(requestutil.Claims(request))
	username := requestutil.Param(request, "username")

	if err := handler.accountService.Delete(request.Context(), caller, username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
