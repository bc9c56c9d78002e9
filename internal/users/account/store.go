// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/revuo/pkg/pagination"
)

// AccountRepository defines the persistence contract for profile management.
//
// Implementations must map storage errors to [apperr.AppError] values so the
// service layer never sees driver-level errors.
type AccountRepository interface {
	// List returns a page of accounts ordered by username, optionally
	// filtered by a case-insensitive username substring, plus the total count.
	List(ctx context.Context, search string, params pagination.Params) ([]Account, int, error)

	// Create persists a new account. A unique violation on username or email
	// must surface as a field-identified Conflict.
	Create(ctx context.Context, account *Account) error

	// FindByID resolves an account by primary key.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByUsername resolves an account by its unique username.
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// Update persists the account's mutable fields. Unique violations on
	// username or email must surface as field-identified Conflicts.
	Update(ctx context.Context, account *Account) error

	// Delete permanently removes the account and, by cascade, its reviews
	// and comments.
	Delete(ctx context.Context, username string) error
}
