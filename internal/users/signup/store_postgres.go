// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signup

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
)

// userConflicts maps the users table's unique constraints to the JSON field
// each one protects. The constraint is the final arbiter for signup races;
// this table makes the race loser's error indistinguishable from the friendly
// pre-check's.
var userConflicts = map[string]apperr.FieldError{
	"users_username_key": {Field: FieldUsername, Message: "Username is already taken"},
	"users_email_key":    {Field: FieldEmail, Message: "Email is already registered"},
}

const userColumns = `
	id, username, email, first_name, last_name, bio, role, confirmation_hash, created_at, updated_at`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: Inserts the full identity row, initializing timestamps. Unique
violations are translated into field-identified Conflicts via the constraint
table.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or storage errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, first_name, last_name, bio, role, confirmation_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.ConfirmationHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if conflict, ok := dberr.ConflictOn(err, userConflicts); ok {
			return conflict
		}
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return repository.scanOne(ctx, query, id)
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return repository.scanOne(ctx, query, username)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return repository.scanOne(ctx, query, email)
}

/*
SetConfirmationHash replaces the stored confirmation hash for a user.

Description: Overwriting the hash atomically invalidates any previously
issued secret — at most one secret is live per user at any moment.

Parameters:
  - ctx: context.Context
  - userID: string
  - hash: string (bcrypt hash of the new secret)

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetConfirmationHash(ctx context.Context, userID, hash string) error {
	const query = `UPDATE users SET confirmation_hash = $2, updated_at = $3 WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, userID, hash, time.Now()); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_set_confirmation_failed")
	}
	return nil
}

/*
ClearConfirmationHash removes the stored confirmation hash.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearConfirmationHash(ctx context.Context, userID string) error {
	const query = `UPDATE users SET confirmation_hash = NULL, updated_at = $2 WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, userID, time.Now()); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_clear_confirmation_failed")
	}
	return nil
}

// scanOne executes a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var confirmationHash *string

	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&confirmationHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_failed")
	}

	if confirmationHash != nil {
		user.ConfirmationHash = *confirmationHash
	}
	return user, nil
}
