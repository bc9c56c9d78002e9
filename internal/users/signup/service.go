// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/ctxutil"
	"github.com/taibuivan/revuo/internal/platform/mailer"
	"github.com/taibuivan/revuo/internal/platform/sec"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to secret issuance,
// throttling, or exchange logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	throttle       AttemptThrottle
	tokenProvider  TokenProvider
	mail           mailer.Mailer

	accessTokenTTL time.Duration
	// singleUseSecrets clears the stored hash after a successful exchange,
	// so each code works exactly once.
	singleUseSecrets bool
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttle AttemptThrottle,
	tokenProv TokenProvider,
	mail mailer.Mailer,
	accessTokenTTL time.Duration,
	singleUseSecrets bool,
) *Service {
	return &Service{
		userRepository:   userRepo,
		throttle:         throttle,
		tokenProvider:    tokenProv,
		mail:             mail,
		accessTokenTTL:   accessTokenTTL,
		singleUseSecrets: singleUseSecrets,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll or re-confirm a member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a new identity or re-issues a confirmation code.

Description: Validates the username/email pair, then resolves one of three
outcomes: an exact match on an existing account triggers an idempotent
re-issue of the confirmation code; a partial collision (username or email
already bound to a DIFFERENT account) is a Conflict; a fresh pair creates
a new account with the default role.

A new secret always invalidates the previous one — at most one code is live
per account.

Parameters:
  - ctx: context.Context
  - input: SignupInput

Returns:
  - *User: The created or re-confirmed account
  - err: Validation, Conflict, or storage errors
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, constants.UsernameMaxLen).
		Username(FieldUsername, input.Username).
		NotReserved(FieldUsername, input.Username, constants.ReservedUsername).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, constants.EmailMaxLen).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 1. Resolve existing bindings ──────────────────────────────────────
	byUsername, err := service.userRepository.FindByUsername(ctx, input.Username)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	byEmail, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	// ── 2. Idempotent re-confirmation ─────────────────────────────────────
	// The exact pair already exists: issue a fresh code for the same account.
	if byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID {
		if err := service.issueConfirmation(ctx, byUsername); err != nil {
			return nil, err
		}
		return byUsername, nil
	}

	// ── 3. Partial collision ──────────────────────────────────────────────
	// Either half of the pair is bound to a different account.
	var details []apperr.FieldError
	if byUsername != nil {
		details = append(details, userConflicts["users_username_key"])
	}
	if byEmail != nil {
		details = append(details, userConflicts["users_email_key"])
	}
	if len(details) > 0 {
		return nil, apperr.Conflict("Identity is already registered", details...)
	}

	// ── 4. Fresh enrollment ───────────────────────────────────────────────
	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:       uuidv7.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	// The unique constraints remain the final arbiter: a concurrent signup
	// racing past the pre-check above surfaces here as the same Conflict.
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := service.issueConfirmation(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// issueConfirmation generates, stores, and delivers a fresh confirmation
// secret, invalidating any previously issued one.
//
// A mail delivery failure is logged but does not fail the request: the
// identity is valid and the client can simply sign up again to re-trigger
// delivery.
func (service *Service) issueConfirmation(ctx context.Context, user *User) error {
	secret, err := sec.NewConfirmationSecret()
	if err != nil {
		return fmt.Errorf("signup_service_secret_generation_failed: %w", err)
	}

	hash, err := sec.HashSecret(secret)
	if err != nil {
		return fmt.Errorf("signup_service_secret_hash_failed: %w", err)
	}

	if err := service.userRepository.SetConfirmationHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("signup_service_store_confirmation_failed: %w", err)
	}
	user.ConfirmationHash = hash

	if err := service.mail.SendConfirmationCode(ctx, user.Email, user.Username, secret); err != nil {
		ctxutil.GetLogger(ctx).Warn("confirmation_mail_delivery_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	return nil
}

// # Token Exchange Flow

// ExchangeInput defines credentials for a token-exchange attempt.
type ExchangeInput struct {
	Username         string
	ConfirmationCode string
}

// TokenGrant represents a successfully minted access token.
type TokenGrant struct {
	AccessToken string
	ExpiresIn   time.Duration
}

/*
ExchangeToken swaps a confirmation code for a JWT access token.

Description: Resolves the username, enforces the per-username failure
throttle, performs a constant-time check of the code against the stored
bcrypt hash, and mints an RSA-signed JWT on success. A successful exchange
resets the throttle and — when single-use mode is on — burns the secret.

Parameters:
  - ctx: context.Context
  - input: ExchangeInput

Returns:
  - *TokenGrant: The signed access token
  - err: NotFound (unknown username), RateLimited, ValidationError (bad code),
    or internal failures
*/
func (service *Service) ExchangeToken(ctx context.Context, input ExchangeInput) (*TokenGrant, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// An unknown username is 404, not 400: the username is a route-level
	// identifier here, not a credential.
	user, err := service.userRepository.FindByUsername(ctx, input.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	// ── 1. Throttle check ─────────────────────────────────────────────────
	failures, err := service.throttle.Failures(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("signup_service_throttle_check_failed: %w", err)
	}
	if failures >= constants.ConfirmationAttemptLimit {
		return nil, apperr.RateLimited(int(constants.ConfirmationAttemptWindow.Seconds()))
	}

	// ── 2. Secret verification ────────────────────────────────────────────
	// An empty hash means no code is currently live (never issued, or burnt
	// by a previous single-use exchange); it fails identically to a wrong code.
	if user.ConfirmationHash == "" || !sec.CheckSecret(input.ConfirmationCode, user.ConfirmationHash) {
		_ = service.throttle.RecordFailure(ctx, user.Username)
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldConfirmationCode,
			Message: "invalid",
		})
	}

	// ── 3. Token minting ──────────────────────────────────────────────────
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), service.accessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("signup_service_token_generation_failed: %w", err)
	}

	// ── 4. Post-grant housekeeping ────────────────────────────────────────
	if err := service.throttle.Reset(ctx, user.Username); err != nil {
		ctxutil.GetLogger(ctx).Warn("throttle_reset_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	if service.singleUseSecrets {
		if err := service.userRepository.ClearConfirmationHash(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("signup_service_burn_secret_failed: %w", err)
		}
	}

	return &TokenGrant{
		AccessToken: accessToken,
		ExpiresIn:   service.accessTokenTTL,
	}, nil
}

// isNotFound reports whether err is a 404-class [apperr.AppError].
func isNotFound(err error) bool {
	var appError *apperr.AppError
	return errors.As(err, &appError) && appError.HTTPStatus == http.StatusNotFound
}
