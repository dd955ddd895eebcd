// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/revuo/revuo/pkg/pagination"
)

// # Repository Contracts

// UserRepository defines persistence for user accounts. The account
// administration service shares this contract with the signup flow.
type UserRepository interface {
	// FindByID returns the account with the given ID, or apperr.NotFound.
	FindByID(context context.Context, id string) (*User, error)

	// FindByUsername returns the account with the given username, or
	// apperr.NotFound.
	FindByUsername(context context.Context, username string) (*User, error)

	// FindByEmail returns the account with the given email, or
	// apperr.NotFound.
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns a page of accounts ordered by username, optionally
	// narrowed by a username search, plus the total count.
	List(context context.Context, search string, page pagination.Params) ([]User, int, error)

	// Create persists a new account. Unique collisions on username or
	// email surface as apperr.Conflict.
	Create(context context.Context, user *User) error

	// Update rewrites the mutable account fields (role, flags, bio,
	// names, email), or apperr.NotFound.
	Update(context context.Context, user *User) error

	// Delete removes an account by username, or apperr.NotFound. Authored
	// reviews and comments cascade away, and every title the account had
	// reviewed gets its rating recomputed in the same transaction.
	Delete(context context.Context, username string) error
}

// CodeRepository stores confirmation code hashes keyed by user ID.
//
// Only a bcrypt hash of the code ever reaches the store; issuing a new code
// overwrites the previous one, so at most one code per user is live.
type CodeRepository interface {
	Set(context context.Context, userID, codeHash string, ttl time.Duration) error

	// Get returns the stored hash, or apperr.NotFound when absent/expired.
	Get(context context.Context, userID string) (string, error)

	Delete(context context.Context, userID string) error
}
