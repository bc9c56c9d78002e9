// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles form a closed set, not a numeric hierarchy: authorization decisions
// test set membership ([UserRole.CanModerate], [UserRole.IsAdmin]) rather
// than comparing levels.
type UserRole string

const (
	// Unrestricted system access: catalog and user management
	RoleAdmin UserRole = "admin"

	// Can moderate reviews and comments written by other users
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// Roles lists every valid role, in ascending order of privilege.
func Roles() []UserRole {
	return []UserRole{RoleUser, RoleModerator, RoleAdmin}
}

// IsValid reports whether r is one of the defined roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r grants catalog and user management rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// CanModerate reports whether r grants review/comment moderation rights.
// Moderators and admins share these rights.
func (r UserRole) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}
