// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/revuo/internal/platform/sec"
)

func TestUserRole_ClosedSet(t *testing.T) {
	tests := []struct {
		role        sec.UserRole
		valid       bool
		admin       bool
		canModerate bool
	}{
		{sec.RoleUser, true, false, false},
		{sec.RoleModerator, true, false, true},
		{sec.RoleAdmin, true, true, true},
		{sec.UserRole("superuser"), false, false, false},
		{sec.UserRole(""), false, false, false},
		{sec.UserRole("ADMIN"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.IsValid())
			assert.Equal(t, tt.admin, tt.role.IsAdmin())
			assert.Equal(t, tt.canModerate, tt.role.CanModerate())
		})
	}
}

func TestRoles_Enumeration(t *testing.T) {
	roles := sec.Roles()
	assert.Equal(t, []sec.UserRole{sec.RoleUser, sec.RoleModerator, sec.RoleAdmin}, roles)

	for _, r := range roles {
		assert.True(t, r.IsValid())
	}
}
