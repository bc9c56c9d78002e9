// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz implements the role-authorization engine.

Every permission rule in the system lives here as a single pure decision
function, [Authorize], evaluated once per guarded operation. Handlers and
services never test roles directly; they describe the attempted action and
let this package answer.

Architecture:

  - Collection-level rules: independent of any specific record (e.g. "anyone
    may read titles", "only admins may create categories").
  - Object-level rules: evaluated against a record's ownership (e.g. "a
    review may be modified by its author, a moderator, or an admin").
  - Totality: for any (verb, resource, caller) triple the function returns
    exactly Allow or Deny. Unknown kinds and verbs deny.

The engine is deliberately free of HTTP and storage dependencies so the full
permission matrix is unit-testable in isolation.
*/
package authz

import (
	"github.com/taibuivan/revuo/internal/platform/apperr"
	"github.com/taibuivan/revuo/internal/platform/sec"
)

// # Vocabulary

// Verb is the category of action being attempted.
type Verb string

const (
	Read   Verb = "read"
	Create Verb = "create"
	Update Verb = "update"
	Delete Verb = "delete"
)

// Kind identifies the type of resource an action targets.
type Kind string

const (
	KindTitle    Kind = "title"
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"

	// KindUser is a user record under admin management (/users/{username}).
	KindUser Kind = "user"

	// KindAccount is the caller's own record (/users/me). The resource is
	// the self by construction, so ownership never needs to be stated.
	KindAccount Kind = "account"
)

// Resource describes the target of an attempted action.
//
// A zero OwnerID means the decision is collection-level (list, create);
// a non-empty OwnerID triggers the object-level ownership rules.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Collection returns a collection-level resource of the given kind.
func Collection(kind Kind) Resource {
	return Resource{Kind: kind}
}

// OwnedBy returns an object-level resource of the given kind and owner.
func OwnedBy(kind Kind, ownerID string) Resource {
	return Resource{Kind: kind, OwnerID: ownerID}
}

// Caller is the identity attempting an action.
type Caller struct {
	ID            string
	Role          sec.UserRole
	Authenticated bool
}

// Anonymous returns the caller used for requests without a valid token.
// Anonymous callers are permitted only actions explicitly marked read-only.
func Anonymous() Caller {
	return Caller{}
}

// FromClaims builds a [Caller] from verified token claims.
// A nil claims pointer yields the anonymous caller.
func FromClaims(claims *sec.AuthClaims) Caller {
	if claims == nil {
		return Anonymous()
	}
	return Caller{
		ID:            claims.UserID,
		Role:          sec.UserRole(claims.Role),
		Authenticated: true,
	}
}

// Decision is the tagged result of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool { return d == Allow }

// # Decision Function

// Authorize evaluates whether caller may perform verb on resource.
//
// The function is total: it returns exactly one of Allow or Deny for every
// input, with Deny as the default for anything not explicitly granted.
func Authorize(verb Verb, resource Resource, caller Caller) Decision {
	switch resource.Kind {

	case KindTitle, KindCategory, KindGenre:
		// Catalog data: world-readable, admin-writable.
		if verb == Read {
			return Allow
		}
		return adminOnly(caller)

	case KindReview, KindComment:
		// Social content: world-readable, any authenticated user may create,
		// mutation is reserved to the author and the moderation roles.
		switch verb {
		case Read:
			return Allow
		case Create:
			return authenticatedOnly(caller)
		case Update, Delete:
			if !caller.Authenticated {
				return Deny
			}
			if resource.OwnerID != "" && resource.OwnerID == caller.ID {
				return Allow
			}
			if caller.Role.CanModerate() {
				return Allow
			}
			return Deny
		}
		return Deny

	case KindUser:
		// Admin user management, including role changes.
		return adminOnly(caller)

	case KindAccount:
		// The "me" endpoint: any authenticated caller, reads and partial
		// updates only. Accounts are created via signup and never deleted here.
		switch verb {
		case Read, Update:
			return authenticatedOnly(caller)
		}
		return Deny
	}

	return Deny
}

// Require runs [Authorize] and converts a Deny into the transport-level
// error the boundary expects: 401 for anonymous callers, 403 otherwise.
func Require(verb Verb, resource Resource, caller Caller) error {
	if Authorize(verb, resource, caller).Allowed() {
		return nil
	}
	if !caller.Authenticated {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("Insufficient permissions")
}

// adminOnly allows authenticated admins and denies everyone else.
func adminOnly(caller Caller) Decision {
	if caller.Authenticated && caller.Role.IsAdmin() {
		return Allow
	}
	return Deny
}

// authenticatedOnly allows any authenticated caller with a valid role.
func authenticatedOnly(caller Caller) Decision {
	if caller.Authenticated && caller.Role.IsValid() {
		return Allow
	}
	return Deny
}
