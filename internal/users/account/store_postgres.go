// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
	"github.com/taibuivan/revuo/pkg/pagination"
)

// accountConflicts maps the users table's unique constraints to the JSON
// field each one protects.
var accountConflicts = map[string]apperr.FieldError{
	"users_username_key": {Field: FieldUsername, Message: "Username is already taken"},
	"users_email_key":    {Field: FieldEmail, Message: "Email is already registered"},
}

const accountColumns = `
	id, username, email, first_name, last_name, bio, role, created_at, updated_at`

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
List returns a page of accounts ordered by username.

Description: Applies an optional case-insensitive username substring filter,
then counts and pages in two queries.

Parameters:
  - ctx: context.Context
  - search: string (empty means no filter)
  - params: pagination.Params

Returns:
  - []Account: The requested page
  - int: Total matching rows across all pages
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) List(ctx context.Context, search string, params pagination.Params) ([]Account, int, error) {
	const countQuery = `
		SELECT count(*) FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_count_failed")
	}

	const listQuery = `
		SELECT ` + accountColumns + `
		FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, listQuery, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_list_failed")
	}
	defer rows.Close()

	accounts := make([]Account, 0, params.Limit)
	for rows.Next() {
		var account Account
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Email,
			&account.FirstName,
			&account.LastName,
			&account.Bio,
			&account.Role,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_account_repo_scan_failed")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_rows_failed")
	}

	return accounts, total, nil
}

/*
Create persists a new account record.

Parameters:
  - ctx: context.Context
  - account: *Account

Returns:
  - error: apperr.Conflict on duplicate username/email, or storage errors
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO users (id, username, email, first_name, last_name, bio, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.Bio,
		account.Role,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if conflict, ok := dberr.ConflictOn(err, accountConflicts); ok {
			return conflict
		}
		return dberr.Wrap(err, "postgres_account_repo_create_failed")
	}

	return nil
}

/*
FindByID retrieves an account by primary key.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	return repository.scanOne(ctx, query, id)
}

/*
FindByUsername retrieves an account by its unique username.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users WHERE username = $1`
	return repository.scanOne(ctx, query, username)
}

/*
Update persists changes to an account's mutable profile fields.

Parameters:
  - ctx: context.Context
  - account: *Account

Returns:
  - error: apperr.Conflict on duplicate username/email, or update failures
*/
func (repository *PostgresAccountRepository) Update(ctx context.Context, account *Account) error {
	const query = `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5, bio = $6, role = $7, updated_at = $8
		WHERE id = $1`

	account.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.FirstName,
		account.LastName,
		account.Bio,
		account.Role,
		account.UpdatedAt,
	)

	if err != nil {
		if conflict, ok := dberr.ConflictOn(err, accountConflicts); ok {
			return conflict
		}
		return dberr.Wrap(err, "postgres_account_repo_update_failed")
	}

	return nil
}

/*
Delete permanently removes an account by username.

Description: Reviews and comments authored by the account are removed by the
schema's ON DELETE CASCADE rules.

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresAccountRepository) Delete(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username = $1`

	tag, err := repository.pool.Exec(ctx, query, username)
	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanOne executes a single-row account query and hydrates the entity.
func (repository *PostgresAccountRepository) scanOne(ctx context.Context, query string, arg any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Bio,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_account_repo_find_failed")
	}
	return account, nil
}
