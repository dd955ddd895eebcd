// Copyright (c) 2026 Revuo. All rights reserved.

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/revuo/revuo/internal/platform/authz"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/platform/validate"
	"github.com/revuo/revuo/pkg/pagination"
	"github.com/revuo/revuo/pkg/slug"
)

// Service implements category use cases. Reads are public; writes are
// restricted to administrators via the central permission evaluator.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a category [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns a page of categories, optionally narrowed by a name search.
func (service *Service) List(context context.Context, search string, page pagination.Params) ([]Category, int, error) {
	return service.repo.List(context, search, page)
}

// Get returns a single category by slug.
func (service *Service) Get(context context.Context, slug string) (*Category, error) {
	return service.repo.GetBySlug(context, slug)
}

// CreateInput holds the data required to add a category.
type CreateInput struct {
	Name string
	Slug string
}

// Create adds a new category. Admin only.
//
// When the slug is omitted it is derived from the name; either way the final
// slug must be strictly alphanumeric and unique.
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Category, error) {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldSlug, input.Slug).
		Alnum(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, MaxSlugLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_created",
		slog.String("slug", created.Slug),
		slog.String("actor", caller.UserID),
	)

	return created, nil
}

// Delete removes a category by slug. Admin only.
//
// The store refuses deletion while titles still reference the category.
func (service *Service) Delete(context context.Context, caller *sec.Identity, slug string) error {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "category_deleted",
		slog.String("slug", slug),
		slog.String("actor", caller.UserID),
	)

	return nil
}
