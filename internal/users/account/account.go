// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements user profile management.

It covers two surfaces over the same users table:

  - Self-service: the /users/me endpoints, where any authenticated member
    reads and edits their own profile (but never their role).
  - Administration: the /users endpoints, where admins list, create, modify,
    and delete arbitrary accounts, including role assignment.

Identity creation for regular members happens in the signup package; accounts
created here by an admin obtain their confirmation code through the normal
signup flow.
*/
package account

import (
	"time"

	"github.com/taibuivan/revuo/internal/platform/sec"
)

// # Domain Entities

// Account is the profile view of a registered user.
type Account struct {
	ID        string       `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBio       = "bio"
	FieldRole      = "role"
)
