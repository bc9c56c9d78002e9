// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/constants"
	"github.com/taibuivan/revuo/internal/platform/sec"
	"github.com/taibuivan/revuo/internal/platform/validate"
	"github.com/taibuivan/revuo/pkg/pagination"
	"github.com/taibuivan/revuo/pkg/uuidv7"
)

// Service implements the profile and user-management use cases.
//
// Every method takes the acting [authz.Caller] and consults the authz engine
// before touching storage; this service holds no role logic of its own.
type Service struct {
	accountRepository AccountRepository
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(accountRepo AccountRepository) *Service {
	return &Service{accountRepository: accountRepo}
}

// # Inputs

// CreateInput holds the data an admin provides to provision an account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string // empty defaults to the base role
}

// UpdateInput describes a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Administration

/*
List returns a page of accounts, optionally filtered by username substring.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - search: string
  - params: pagination.Params

Returns:
  - []Account: The requested page
  - int: Total matching accounts
  - err: Forbidden for non-admins, or storage errors
*/
func (service *Service) List(ctx context.Context, caller authz.Caller, search string, params pagination.Params) ([]Account, int, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindUser), caller); err != nil {
		return nil, 0, err
	}
	return service.accountRepository.List(ctx, search, params)
}

/*
Create provisions a new account with an explicit role.

Description: Admin-only enrollment path. The account starts without a live
confirmation code; the member obtains one through the public signup flow.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - input: CreateInput

Returns:
  - *Account: The created account
  - err: Forbidden, Validation, Conflict, or storage errors
*/
func (service *Service) Create(ctx context.Context, caller authz.Caller, input CreateInput) (*Account, error) {
	if err := authz.Require(authz.Create, authz.Collection(authz.KindUser), caller); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, constants.UsernameMaxLen).
		Username(FieldUsername, input.Username).
		NotReserved(FieldUsername, input.Username, constants.ReservedUsername).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, constants.EmailMaxLen).
		Email(FieldEmail, input.Email).
		OneOf(FieldRole, input.Role, roleNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	account := &Account{
		ID:        uuidv7.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.accountRepository.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

/*
Get resolves an account by username for administration.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - username: string

Returns:
  - *Account: Hydrated entity
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Get(ctx context.Context, caller authz.Caller, username string) (*Account, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindUser), caller); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByUsername(ctx, username)
}

/*
Update applies a partial modification to an arbitrary account.

Description: Admin-only. Unlike the self-service path, the role field IS
assignable here — this is the only write path for role promotion.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - username: string (target account)
  - input: UpdateInput

Returns:
  - *Account: The updated account
  - err: Forbidden, NotFound, Validation, Conflict, or storage errors
*/
func (service *Service) Update(ctx context.Context, caller authz.Caller, username string, input UpdateInput) (*Account, error) {
	if err := authz.Require(authz.Update, authz.Collection(authz.KindUser), caller); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return service.applyUpdate(ctx, account, input)
}

/*
Delete permanently removes an account by username.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - username: string

Returns:
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(ctx context.Context, caller authz.Caller, username string) error {
	if err := authz.Require(authz.Delete, authz.Collection(authz.KindUser), caller); err != nil {
		return err
	}
	return service.accountRepository.Delete(ctx, username)
}

// # Self-Service

/*
Me returns the caller's own profile.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller

Returns:
  - *Account: The caller's account
  - err: Unauthorized for anonymous callers, or storage errors
*/
func (service *Service) Me(ctx context.Context, caller authz.Caller) (*Account, error) {
	if err := authz.Require(authz.Read, authz.Collection(authz.KindAccount), caller); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByID(ctx, caller.ID)
}

/*
UpdateMe applies a partial modification to the caller's own profile.

Description: The role field is read-only on this path for EVERY caller,
including admins — promotion must go through the user-management surface so
it is always an explicit, audited act on a named account.

Parameters:
  - ctx: context.Context
  - caller: authz.Caller
  - input: UpdateInput

Returns:
  - *Account: The updated account
  - err: Unauthorized, Validation, Conflict, or storage errors
*/
func (service *Service) UpdateMe(ctx context.Context, caller authz.Caller, input UpdateInput) (*Account, error) {
	if err := authz.Require(authz.Update, authz.Collection(authz.KindAccount), caller); err != nil {
		return nil, err
	}

	if input.Role != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldRole,
			Message: "Role cannot be changed on this endpoint",
		})
	}

	account, err := service.accountRepository.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	return service.applyUpdate(ctx, account, input)
}

// applyUpdate validates and persists the non-nil fields of input onto account.
func (service *Service) applyUpdate(ctx context.Context, account *Account, input UpdateInput) (*Account, error) {
	validator := &validate.Validator{}

	if input.Username != nil {
		validator.Required(FieldUsername, *input.Username).
			MaxLen(FieldUsername, *input.Username, constants.UsernameMaxLen).
			Username(FieldUsername, *input.Username).
			NotReserved(FieldUsername, *input.Username, constants.ReservedUsername)
		account.Username = *input.Username
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).
			MaxLen(FieldEmail, *input.Email, constants.EmailMaxLen).
			Email(FieldEmail, *input.Email)
		account.Email = *input.Email
	}
	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Bio != nil {
		account.Bio = *input.Bio
	}
	if input.Role != nil {
		validator.OneOf(FieldRole, *input.Role, roleNames()...)
		account.Role = sec.UserRole(*input.Role)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// roleNames returns the closed role set as plain strings for validation.
func roleNames() []string {
	roles := sec.Roles()
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
