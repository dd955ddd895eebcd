// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package authz is the single place where authorization decisions are made.

Every core operation receives the caller's [sec.Identity] explicitly and asks
this package whether the action is allowed. Call sites never recompute role
combinations themselves.

Decision table (first match wins):

  - Catalog (categories, genres, titles): reads are always allowed; writes
    require an admin (role admin, superuser, or staff).
  - Authored content (reviews, comments): reads are always allowed; writes
    require the caller to be the author, a moderator, or an admin.
  - User administration: restricted to admins. The role field itself is only
    mutable by an admin.

A nil identity yields Unauthorized (401) wherever identity is required;
an insufficient identity yields Forbidden (403). Denials carry generic
messages so they never reveal whether a resource exists.
*/
package authz

import (
	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/sec"
)

// CanWriteCatalog decides whether the caller may create, update, or delete
// categories, genres, and titles. Reads are not gated and never call this.
func CanWriteCatalog(caller *sec.Identity) error {
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("Administrator privileges required")
}

// CanMutateAuthored decides whether the caller may update or delete a review
// or comment owned by authorID.
//
// The author always may; moderators and admins may regardless of ownership.
func CanMutateAuthored(caller *sec.Identity, authorID string) error {
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.UserID == authorID || caller.IsModerator() || caller.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("You do not have permission to modify this content")
}

// CanCreateAuthored decides whether the caller may create a review or comment.
// Any authenticated identity qualifies.
func CanCreateAuthored(caller *sec.Identity) error {
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// CanManageUsers decides whether the caller may list, create, modify, or
// delete other user accounts.
func CanManageUsers(caller *sec.Identity) error {
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("Administrator privileges required")
}

// CanEditRole decides whether the caller may change an account's role.
// Only admins may; users cannot elevate themselves through profile updates.
func CanEditRole(caller *sec.Identity) error {
	return CanManageUsers(caller)
}
