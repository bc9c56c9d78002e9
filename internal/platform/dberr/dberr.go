// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint Arbitration
//
// Uniqueness in Revuo is enforced twice: a friendly application-level
// existence check, and the PostgreSQL constraint that is the final arbiter
// under concurrency. This package translates the constraint's SQLSTATE 23505
// into the same Conflict the friendly check would have produced, so a race
// loser sees an identical response.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/revuo/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violations become Conflicts. Callers that know the constraint
	// layout should use UniqueConstraint first to attach field details.
	if _, ok := UniqueConstraint(err); ok {
		return apperr.Conflict("Resource already exists")
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// UniqueConstraint reports whether err is a PostgreSQL unique violation
// (SQLSTATE 23505) and, if so, the name of the violated constraint.
//
// Repositories use the constraint name to produce a field-identified
// [apperr.Conflict] instead of a generic one.
func UniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ConflictOn maps a unique violation in err onto a field-identified Conflict
// using the provided constraint→field table. It returns false when err is not
// a unique violation or the constraint is not in the table.
func ConflictOn(err error, fields map[string]apperr.FieldError) (*apperr.AppError, bool) {
	constraint, ok := UniqueConstraint(err)
	if !ok {
		return nil, false
	}

	detail, ok := fields[constraint]
	if !ok {
		return apperr.Conflict("Resource already exists"), true
	}
	return apperr.Conflict(detail.Message, detail), true
}
