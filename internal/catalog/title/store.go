// Copyright (c) 2026 Revuo. All rights reserved.

package title

import (
	"context"

	"github.com/revuo/revuo/pkg/pagination"
)

// Patch describes a partial title update. Nil fields are left untouched;
// a non-nil GenreIDs slice replaces the genre links wholesale.
type Patch struct {
	Name        *string
	Year        *int
	Description *string
	CategoryID  *int64
	GenreIDs    []int64
}

// Repository defines the data access contract for titles.
type Repository interface {
	// List returns a filtered page of titles plus the total count. Returned
	// titles are fully hydrated (category and genre refs, derived rating).
	List(context context.Context, filter Filter, page pagination.Params) ([]Title, int, error)

	// GetByID returns a hydrated title, or apperr.NotFound.
	GetByID(context context.Context, id int64) (*Title, error)

	// Create persists a new title and its genre links in one transaction.
	Create(context context.Context, title *Title) error

	// Update applies a partial update, or apperr.NotFound.
	Update(context context.Context, id int64, patch Patch) error

	// Delete removes the title. Reviews and comments cascade away.
	Delete(context context.Context, id int64) error
}
