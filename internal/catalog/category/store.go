package category

import (
	"context"

	"github.com/revuo/revuo/pkg/pagination"
)

// Repository defines the data access contract for categories.
type Repository interface {
	// List returns a page of categories plus the total count. A non-empty
	// search narrows by case-insensitive name substring.
	List(context context.Context, search string, page pagination.Params) ([]Category, int, error)

	// GetBySlug returns the category with the given slug, or apperr.NotFound.
	GetBySlug(context context.Context, slug string) (*Category, error)

	// Create persists a new category. A slug collision is returned as a
	// field-level validation error; the unique index is the authoritative
	// guard under concurrent creates.
	Create(context context.Context, category *Category) error

	// DeleteBySlug removes the category. Deletion is refused with
	// apperr.Protected while titles still reference it.
	DeleteBySlug(context context.Context, slug string) error
}
