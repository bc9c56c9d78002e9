// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package signup implements the passwordless identity lifecycle.

A new member registers with only a username and email, receives an opaque
confirmation code out-of-band, and exchanges it for a JWT access token. There
are no passwords anywhere in the flow.

# Architecture

This layer is the "Truth" of the identity system:

  - Service: Orchestrates registration, reissue, and token exchange.
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (attempt throttling).
  - Security: Bcrypt-hashed confirmation secrets and RSA-signed JWTs.
*/
package signup

import (
	"time"

	"github.com/taibuivan/revuo/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Revuo platform.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	Role      sec.UserRole `json:"role"`
	// ConfirmationHash is the bcrypt hash of the currently live confirmation
	// secret, or empty when no exchange is possible. Never serialized.
	ConfirmationHash string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the signup domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldAccessToken      = "access_token"
	FieldTokenType        = "token_type"
	FieldExpiresIn        = "expires_in"
)
