// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/dberr"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "get_title")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestWrap_UniqueViolation(t *testing.T) {
	err := dberr.Wrap(uniqueViolation("reviews_one_per_author_title"), "create_review")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestWrap_UnknownBecomesInternal(t *testing.T) {
	err := dberr.Wrap(errors.New("connection reset"), "list_titles")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	// The cause stays server-side.
	assert.NotContains(t, ae.Message, "connection reset")
}

func TestUniqueConstraint(t *testing.T) {
	name, ok := dberr.UniqueConstraint(uniqueViolation("users_email_key"))
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", name)

	_, ok = dberr.UniqueConstraint(errors.New("nope"))
	assert.False(t, ok)
}

func TestConflictOn_FieldMapping(t *testing.T) {
	table := map[string]apperr.FieldError{
		"users_username_key": {Field: "username", Message: "Username is already taken"},
		"users_email_key":    {Field: "email", Message: "Email is already registered"},
	}

	ae, ok := dberr.ConflictOn(uniqueViolation("users_email_key"), table)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "email", ae.Details[0].Field)

	// Unknown constraint still conflicts, without field detail.
	ae, ok = dberr.ConflictOn(uniqueViolation("mystery_key"), table)
	require.True(t, ok)
	assert.Empty(t, ae.Details)

	// Non-unique errors pass through untouched.
	_, ok = dberr.ConflictOn(pgx.ErrNoRows, table)
	assert.False(t, ok)
}
