// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/revuo/internal/platform/request"
	"github.com/taibuivan/revuo/internal/platform/respond"
	"github.com/taibuivan/revuo/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the signup and token-exchange HTTP endpoints.
//
// # Scope
//
// Both endpoints are public by design — they ARE the way in. Abuse control
// happens in the service (per-username throttle) and the global rate limiter.
type Handler struct {
	signupService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{signupService: service}
}

// Routes returns a [chi.Router] configured with identity entry points.
//
// # Endpoints
//   - POST /signup : Registers an identity and emails a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.exchangeToken)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type exchangeTokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup registers a new identity or re-issues a confirmation code.

POST /api/v1/auth/signup

Description: Validates input, resolves identity collisions, and triggers
out-of-band delivery of the confirmation code. Calling it again with the
same pair is idempotent and re-issues the code.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: {username, email}: Echo of the registered pair (the code travels by email only)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email bound to a different account
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.signupService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Never echo anything secret-adjacent: only the identity pair.
	respond.OK(writer, map[string]string{
		FieldUsername: user.Username,
		FieldEmail:    user.Email,
	})
}

/*
ExchangeToken swaps a confirmation code for an access token.

POST /api/v1/auth/token

Description: Verifies the confirmation code against the stored hash and
returns a signed JWT on success. Repeated failures are throttled per
username.

Request:
  - Body: exchangeTokenRequest (Username, ConfirmationCode)

Response:
  - 200: {access_token, token_type, expires_in}: Bearer credentials
  - 400: ErrInvalidJSON: Bad payload or wrong confirmation code
  - 404: ErrNotFound: Unknown username
  - 429: ErrRateLimited: Too many failed attempts
*/
func (handler *Handler) exchangeToken(writer http.ResponseWriter, request *http.Request) {
	var input exchangeTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	grant, err := handler.signupService.ExchangeToken(request.Context(), ExchangeInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: grant.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   grant.ExpiresIn / time.Second,
	})
}
