// Copyright (c) 2026 Revuo. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The role set is closed. Elevated access outside of it is expressed by the
// separate superuser/staff flags on [Identity], mirroring how the flags are
// stored on the account row.
type UserRole string

const (
	// Full control over users and the catalog
	RoleAdmin UserRole = "admin"

	// Can edit and remove any review or comment
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether the role is one of the closed set.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Identity

// Identity is the authenticated subject every core operation receives.
//
// It is reconstructed from verified JWT claims, never from ambient state,
// and is the sole input to authorization decisions.
type Identity struct {
	UserID      string
	Username    string
	Role        UserRole
	IsSuperuser bool
	IsStaff     bool
}

// IsAdmin reports whether the identity holds administrative privileges.
// Superuser and staff flags grant admin rights regardless of role.
func (i *Identity) IsAdmin() bool {
	return i.IsSuperuser || i.Role == RoleAdmin || i.IsStaff
}

// IsModerator reports whether the identity holds the moderator role.
func (i *Identity) IsModerator() bool {
	return i.Role == RoleModerator
}
