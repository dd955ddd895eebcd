// Copyright (c) 2026 Revuo. All rights reserved.

package genre

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

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, search string, page pagination.Params) ([]Genre, int, error) {
	return service.repo.List(context, search, page)
}

func (service *Service) Get(context context.Context, slug string) (*Genre, error) {
	return service.repo.GetBySlug(context, slug)
}

type CreateInput struct {
	Name string
	Slug string
}

// Create adds a new genre. Admin only. The slug falls back to an
// alphanumeric derivation of the name when omitted.
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Genre, error) {
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

	created := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "genre_created",
		slog.String("slug", created.Slug),
		slog.String("actor", caller.UserID),
	)

	return created, nil
}

// Delete removes a genre by slug. Admin only.
func (service *Service) Delete(context context.Context, caller *sec.Identity, slug string) error {
	if err := authz.CanWriteCatalog(caller); err != nil {
		return err
	}

	if err := service.repo.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "genre_deleted",
		slog.String("slug", slug),
		slog.String("actor", caller.UserID),
	)

	return nil
}
