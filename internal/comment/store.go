package comment

import (
	"context"

	"github.com/revuo/revuo/pkg/pagination"
)

// Repository defines the data access contract.
type Repository interface {
	// ReviewExists reports whether the review exists under the given title.
	ReviewExists(context context.Context, titleID, reviewID int64) (bool, error)

	ListByReview(context context.Context, reviewID int64, page pagination.Params) ([]Comment, int, error)
	GetByID(context context.Context, reviewID, commentID int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, reviewID, commentID int64) error
}
