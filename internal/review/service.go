// Copyright (c) 2026 Revuo. All rights reserved.

package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/authz"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/platform/validate"
	"github.com/revuo/revuo/pkg/pagination"
)

// Service implements review use cases.
//
// Reads are public. Creating requires any authenticated user; editing and
// deleting are open to the author, moderators, and admins. The parent title
// is always checked first, so an absent title reads as 404 before any
// ownership or uniqueness verdict.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a review [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns a page of reviews for a title.
func (service *Service) List(context context.Context, titleID int64, page pagination.Params) ([]Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByTitle(context, titleID, page)
}

// Get returns a single review scoped to its title.
func (service *Service) Get(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	return service.repo.GetByID(context, titleID, reviewID)
}

// CreateInput holds the data required to post a review.
type CreateInput struct {
	Text  string
	Score int
}

// Create posts a review for a title on behalf of the caller.
//
// One review per (title, author): a second attempt is a validation error,
// not a silent upsert.
func (service *Service) Create(context context.Context, caller *sec.Identity, titleID int64, input CreateInput) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	if err := authz.CanCreateAuthored(caller); err != nil {
		return nil, err
	}

	input.Text = strings.TrimSpace(input.Text)

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxTextLength).
		Range(FieldScore, input.Score, MinScore, MaxScore)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created := &Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", created.ID),
		slog.String("actor", caller.UserID),
	)

	return created, nil
}

// UpdateInput describes a partial review edit. Nil fields are untouched.
type UpdateInput struct {
	Text  *string
	Score *int
}

// Update edits a review's text or score. Author, moderator, or admin.
// The title and author bindings are immutable.
func (service *Service) Update(context context.Context, caller *sec.Identity, titleID, reviewID int64, input UpdateInput) (*Review, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanMutateAuthored(caller, review.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		trimmed := strings.TrimSpace(*input.Text)
		review.Text = trimmed
		validator.Required(FieldText, trimmed).MaxLen(FieldText, trimmed, MaxTextLength)
	}
	if input.Score != nil {
		review.Score = *input.Score
		validator.Range(FieldScore, *input.Score, MinScore, MaxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_updated",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", reviewID),
		slog.String("actor", caller.UserID),
	)

	return review, nil
}

// Delete removes a review. Author, moderator, or admin. The title rating is
// refreshed in the same transaction; comments cascade away.
func (service *Service) Delete(context context.Context, caller *sec.Identity, titleID, reviewID int64) error {
	if err := service.requireTitle(context, titleID); err != nil {
		return err
	}

	review, err := service.repo.GetByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.CanMutateAuthored(caller, review.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", reviewID),
		slog.String("actor", caller.UserID),
	)

	return nil
}

func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.repo.TitleExists(context, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}
