// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package auth implements the user identity layer: registration by email
confirmation code and JWT issuance.

# Architecture

There are no passwords. Signup records (or refreshes) an account and emails
a short-lived confirmation code; exchanging username plus code yields a
signed access token. The code at rest is a bcrypt hash in Redis, so a cache
dump never leaks usable credentials.
*/
package auth

import (
	"time"

	"github.com/revuo/revuo/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Revuo platform.
type User struct {
	ID          string       `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	IsStaff     bool         `json:"-"`
	Bio         string       `json:"bio,omitempty"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Identity converts the stored account into an authorization subject.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		IsStaff:     user.IsStaff,
	}
}

// # Field Identifiers

// Global field names for validation in the identity domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRole             = "role"
	FieldBio              = "bio"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
)

// # Field Limits

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
	MaxBioLength      = 1000
)
