// Copyright (c) 2026 Revuo. All rights reserved.

package review

import (
	"context"

	"github.com/revuo/revuo/pkg/pagination"
)

// Repository defines the data access contract for reviews.
//
// Every mutation recomputes the parent title's derived rating inside the
// same transaction, so readers never observe a rating that disagrees with
// the stored scores.
type Repository interface {
	// TitleExists reports whether the parent title is present. Parent
	// checks run before any ownership or uniqueness decision.
	TitleExists(context context.Context, titleID int64) (bool, error)

	// ListByTitle returns a page of reviews for a title, newest first,
	// plus the total count.
	ListByTitle(context context.Context, titleID int64, page pagination.Params) ([]Review, int, error)

	// GetByID returns a review scoped to its title, or apperr.NotFound.
	GetByID(context context.Context, titleID, reviewID int64) (*Review, error)

	// Create inserts a review and refreshes the title rating. A duplicate
	// (title, author) pair is returned as a validation error; the unique
	// constraint is the authoritative guard under concurrency.
	Create(context context.Context, review *Review) error

	// Update rewrites a review's text and score and refreshes the title
	// rating. Title and author bindings never change.
	Update(context context.Context, review *Review) error

	// Delete removes a review and refreshes the title rating. Comments
	// cascade away with the review.
	Delete(context context.Context, titleID, reviewID int64) error
}
