// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authz_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/authz"
	"github.com/taibuivan/revuo/internal/platform/sec"
)

func caller(id string, role sec.UserRole) authz.Caller {
	return authz.Caller{ID: id, Role: role, Authenticated: true}
}

/*
TestAuthorize_CatalogRules covers the collection-level matrix for titles,
categories, and genres: reads open to everyone, writes admin-only.
*/
func TestAuthorize_CatalogRules(t *testing.T) {
	kinds := []authz.Kind{authz.KindTitle, authz.KindCategory, authz.KindGenre}
	writes := []authz.Verb{authz.Create, authz.Update, authz.Delete}

	for _, kind := range kinds {
		res := authz.Collection(kind)

		t.Run(fmt.Sprintf("%s_read_open", kind), func(t *testing.T) {
			assert.True(t, authz.Authorize(authz.Read, res, authz.Anonymous()).Allowed())
			assert.True(t, authz.Authorize(authz.Read, res, caller("u1", sec.RoleUser)).Allowed())
		})

		for _, verb := range writes {
			t.Run(fmt.Sprintf("%s_%s_admin_only", kind, verb), func(t *testing.T) {
				assert.False(t, authz.Authorize(verb, res, authz.Anonymous()).Allowed())
				assert.False(t, authz.Authorize(verb, res, caller("u1", sec.RoleUser)).Allowed())
				assert.False(t, authz.Authorize(verb, res, caller("m1", sec.RoleModerator)).Allowed())
				assert.True(t, authz.Authorize(verb, res, caller("a1", sec.RoleAdmin)).Allowed())
			})
		}
	}
}

/*
TestAuthorize_ReviewOwnership covers the object-level rules shared by
reviews and comments.
*/
func TestAuthorize_ReviewOwnership(t *testing.T) {
	for _, kind := range []authz.Kind{authz.KindReview, authz.KindComment} {
		owned := authz.OwnedBy(kind, "author-1")

		tests := []struct {
			name    string
			verb    authz.Verb
			caller  authz.Caller
			allowed bool
		}{
			{"anonymous_read", authz.Read, authz.Anonymous(), true},
			{"anonymous_create", authz.Create, authz.Anonymous(), false},
			{"user_create", authz.Create, caller("u9", sec.RoleUser), true},
			{"author_update", authz.Update, caller("author-1", sec.RoleUser), true},
			{"author_delete", authz.Delete, caller("author-1", sec.RoleUser), true},
			{"stranger_update", authz.Update, caller("u9", sec.RoleUser), false},
			{"stranger_delete", authz.Delete, caller("u9", sec.RoleUser), false},
			{"moderator_update", authz.Update, caller("m1", sec.RoleModerator), true},
			{"moderator_delete", authz.Delete, caller("m1", sec.RoleModerator), true},
			{"admin_delete", authz.Delete, caller("a1", sec.RoleAdmin), true},
			{"anonymous_delete", authz.Delete, authz.Anonymous(), false},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s_%s", kind, tt.name), func(t *testing.T) {
				got := authz.Authorize(tt.verb, owned, tt.caller)
				assert.Equal(t, tt.allowed, got.Allowed())
			})
		}
	}
}

/*
TestAuthorize_UserManagement ensures only admins touch /users records.
*/
func TestAuthorize_UserManagement(t *testing.T) {
	res := authz.Collection(authz.KindUser)

	for _, verb := range []authz.Verb{authz.Read, authz.Create, authz.Update, authz.Delete} {
		t.Run(string(verb), func(t *testing.T) {
			assert.False(t, authz.Authorize(verb, res, authz.Anonymous()).Allowed())
			assert.False(t, authz.Authorize(verb, res, caller("u1", sec.RoleUser)).Allowed())
			assert.False(t, authz.Authorize(verb, res, caller("m1", sec.RoleModerator)).Allowed())
			assert.True(t, authz.Authorize(verb, res, caller("a1", sec.RoleAdmin)).Allowed())
		})
	}
}

/*
TestAuthorize_Account covers the self endpoint: any authenticated role may
read and patch itself, nothing else is granted.
*/
func TestAuthorize_Account(t *testing.T) {
	res := authz.Collection(authz.KindAccount)

	for _, role := range sec.Roles() {
		assert.True(t, authz.Authorize(authz.Read, res, caller("x", role)).Allowed())
		assert.True(t, authz.Authorize(authz.Update, res, caller("x", role)).Allowed())
	}

	assert.False(t, authz.Authorize(authz.Read, res, authz.Anonymous()).Allowed())
	assert.False(t, authz.Authorize(authz.Delete, res, caller("x", sec.RoleAdmin)).Allowed())
	assert.False(t, authz.Authorize(authz.Create, res, caller("x", sec.RoleAdmin)).Allowed())
}

/*
TestAuthorize_Totality sweeps the full input space to verify the engine is
total: every triple yields exactly Allow or Deny, and anything unknown denies.
*/
func TestAuthorize_Totality(t *testing.T) {
	verbs := []authz.Verb{authz.Read, authz.Create, authz.Update, authz.Delete, authz.Verb("purge")}
	kinds := []authz.Kind{
		authz.KindTitle, authz.KindCategory, authz.KindGenre, authz.KindReview,
		authz.KindComment, authz.KindUser, authz.KindAccount, authz.Kind("unknown"),
	}
	callers := []authz.Caller{
		authz.Anonymous(),
		caller("u1", sec.RoleUser),
		caller("m1", sec.RoleModerator),
		caller("a1", sec.RoleAdmin),
		{ID: "z", Role: sec.UserRole("bogus"), Authenticated: true},
	}

	for _, verb := range verbs {
		for _, kind := range kinds {
			for _, c := range callers {
				d := authz.Authorize(verb, authz.Collection(kind), c)
				assert.Contains(t, []authz.Decision{authz.Allow, authz.Deny}, d)

				if kind == authz.Kind("unknown") || verb == authz.Verb("purge") {
					assert.Equal(t, authz.Deny, d)
				}
			}
		}
	}
}

/*
TestAuthorize_InvalidRoleCannotCreate guards against tokens carrying a role
outside the closed enumeration.
*/
func TestAuthorize_InvalidRoleCannotCreate(t *testing.T) {
	bogus := authz.Caller{ID: "z", Role: sec.UserRole("root"), Authenticated: true}
	res := authz.Collection(authz.KindReview)

	assert.False(t, authz.Authorize(authz.Create, res, bogus).Allowed())
}

/*
TestRequire_ErrorMapping checks the 401-vs-403 split on denial.
*/
func TestRequire_ErrorMapping(t *testing.T) {
	res := authz.Collection(authz.KindTitle)

	// Anonymous denial → 401.
	err := authz.Require(authz.Create, res, authz.Anonymous())
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// Authenticated but insufficient → 403.
	err = authz.Require(authz.Create, res, caller("u1", sec.RoleUser))
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)

	// Allowed → nil.
	assert.NoError(t, authz.Require(authz.Create, res, caller("a1", sec.RoleAdmin)))
}

func TestFromClaims(t *testing.T) {
	assert.False(t, authz.FromClaims(nil).Authenticated)

	c := authz.FromClaims(&sec.AuthClaims{UserID: "u1", Username: "alice", Role: "moderator"})
	assert.True(t, c.Authenticated)
	assert.Equal(t, "u1", c.ID)
	assert.Equal(t, sec.RoleModerator, c.Role)
}
