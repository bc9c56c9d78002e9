// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"context"
)

// # Repository Contracts

// UserRepository defines the persistence contract for user identities.
//
// Implementations must map storage errors to [apperr.AppError] values so the
// service layer never sees driver-level errors.
type UserRepository interface {
	// Create persists a new user. A unique violation on username or email
	// must surface as a field-identified Conflict.
	Create(ctx context.Context, user *User) error

	// FindByID resolves a user by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername resolves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail resolves a user by their unique email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// SetConfirmationHash replaces the stored confirmation hash, invalidating
	// any previously issued secret for this user.
	SetConfirmationHash(ctx context.Context, userID, hash string) error

	// ClearConfirmationHash removes the stored hash so no further exchange
	// can succeed until a new secret is issued.
	ClearConfirmationHash(ctx context.Context, userID string) error
}

// AttemptThrottle tracks failed confirmation-code exchanges per username.
//
// The counter lives in volatile storage with a sliding-window TTL; losing it
// (e.g. on a Redis restart) only relaxes throttling, never correctness.
type AttemptThrottle interface {
	// Failures returns the number of failed exchanges recorded within the
	// current window.
	Failures(ctx context.Context, username string) (int, error)

	// RecordFailure increments the failure counter, starting the window on
	// the first failure.
	RecordFailure(ctx context.Context, username string) error

	// Reset clears the counter after a successful exchange.
	Reset(ctx context.Context, username string) error
}
