// Copyright (c) 2026 Revuo. All rights reserved.

package title

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/revuo/revuo/internal/catalog/category"
	"github.com/revuo/revuo/internal/catalog/genre"
	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/authz"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/platform/validate"
	"github.com/revuo/revuo/pkg/pagination"
)

// CategoryResolver resolves a category slug to its stored entity.
type CategoryResolver interface {
	Get(context context.Context, slug string) (*category.Category, error)
}

// GenreResolver resolves a genre slug to its stored entity.
type GenreResolver interface {
	Get(context context.Context, slug string) (*genre.Genre, error)
}

// Service implements title use cases. Reads are public; writes are
// restricted to administrators.
type Service struct {
	repo       Repository
	categories CategoryResolver
	genres     GenreResolver
	logger     *slog.Logger
}

// NewService constructs a title [Service].
func NewService(repo Repository, categories CategoryResolver, genres GenreResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
	}
}

// List returns a filtered page of titles.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]Title, int, error) {
	return service.repo.List(context, filter, page)
}

// Get returns a single hydrated title by ID.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repo.GetByID(context, id)
}

// CreateInput holds the data required to add a title.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// Create adds a new title. Admin only.
//
// The category slug must resolve to an existing category; every genre slug
// must resolve to an existing genre. Unknown slugs are reported as
// field-level validation errors rather than 404s, because the title is the
// resource being addressed here.
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Title, error) {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength).
		Custom(FieldYear, input.Year <= 0, "Must be a positive year").
		Max(FieldYear, input.Year, time.Now().Year()).
		Custom(FieldCategory, input.CategorySlug == "", "This field is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	categoryID, genreIDs, err := service.resolveRefs(context, &input.CategorySlug, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	created := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  *categoryID,
		GenreIDs:    genreIDs,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", created.ID),
		slog.String("actor", caller.UserID),
	)

	// Re-read to hydrate category and genre refs.
	return service.repo.GetByID(context, created.ID)
}

// UpdateInput describes a partial title update. Nil fields are untouched.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

// Update applies a partial update to a title. Admin only. The derived
// rating is never writable through this path.
func (service *Service) Update(context context.Context, caller *sec.Identity, id int64, input UpdateInput) (*Title, error) {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		validator.Required(FieldName, trimmed).MaxLen(FieldName, trimmed, MaxNameLength)
	}
	if input.Year != nil {
		validator.Custom(FieldYear, *input.Year <= 0, "Must be a positive year").
			Max(FieldYear, *input.Year, time.Now().Year())
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if input.CategorySlug != nil {
		validator.Custom(FieldCategory, *input.CategorySlug == "", "This field is required")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	categoryID, genreIDs, err := service.resolveRefs(context, input.CategorySlug, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	patch := Patch{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  categoryID,
	}
	if input.GenreSlugs != nil {
		patch.GenreIDs = genreIDs
	}

	if err := service.repo.Update(context, id, patch); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_updated",
		slog.Int64("title_id", id),
		slog.String("actor", caller.UserID),
	)

	return service.repo.GetByID(context, id)
}

// Delete removes a title. Admin only. Reviews and their comments go with it.
func (service *Service) Delete(context context.Context, caller *sec.Identity, id int64) error {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted",
		slog.Int64("title_id", id),
		slog.String("actor", caller.UserID),
	)

	return nil
}

// resolveRefs maps a category slug and genre slugs to stored IDs. A nil
// category slug is skipped. Unknown slugs surface as validation errors.
func (service *Service) resolveRefs(context context.Context, categorySlug *string, genreSlugs []string) (*int64, []int64, error) {
	var categoryID *int64
	if categorySlug != nil {
		resolved, err := service.categories.Get(context, *categorySlug)
		if err != nil {
			if apperr.IsCode(err, "NOT_FOUND") {
				return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{
					Field:   FieldCategory,
					Message: "Unknown category slug: " + *categorySlug,
				})
			}
			return nil, nil, err
		}
		categoryID = &resolved.ID
	}

	genreIDs := make([]int64, 0, len(genreSlugs))
	for _, slug := range genreSlugs {
		resolved, err := service.genres.Get(context, slug)
		if err != nil {
			if apperr.IsCode(err, "NOT_FOUND") {
				return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{
					Field:   FieldGenre,
					Message: "Unknown genre slug: " + slug,
				})
			}
			return nil, nil, err
		}
		genreIDs = append(genreIDs, resolved.ID)
	}

	return categoryID, genreIDs, nil
}
