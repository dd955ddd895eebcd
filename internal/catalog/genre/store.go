package genre

import (
	"context"

	"github.com/revuo/revuo/pkg/pagination"
)

// Repository defines the data access contract.
type Repository interface {
	List(context context.Context, search string, page pagination.Params) ([]Genre, int, error)
	GetBySlug(context context.Context, slug string) (*Genre, error)
	Create(context context.Context, genre *Genre) error
	DeleteBySlug(context context.Context, slug string) error
}
