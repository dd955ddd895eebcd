// Copyright (c) 2026 Revuo. All rights reserved.

package comment

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

// Service implements comment use cases. The permission model mirrors
// reviews: public reads, any authenticated user may post, and edits are
// open to the author, moderators, and admins.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a comment [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns a page of comments under a review, oldest first.
func (service *Service) List(context context.Context, titleID, reviewID int64, page pagination.Params) ([]Comment, int, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByReview(context, reviewID, page)
}

// Get returns a single comment scoped to its review.
func (service *Service) Get(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	return service.repo.GetByID(context, reviewID, commentID)
}

// Create posts a comment under a review on behalf of the caller. Unlike
// reviews there is no one-per-author cap.
func (service *Service) Create(context context.Context, caller *sec.Identity, titleID, reviewID int64, text string) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	if err := authz.CanCreateAuthored(caller); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, MaxTextLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	created := &Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     text,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("review_id", reviewID),
		slog.Int64("comment_id", created.ID),
		slog.String("actor", caller.UserID),
	)

	return created, nil
}

// Update edits a comment's text. Author, moderator, or admin.
func (service *Service) Update(context context.Context, caller *sec.Identity, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := service.repo.GetByID(context, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanMutateAuthored(caller, comment.AuthorID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, MaxTextLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_updated",
		slog.Int64("comment_id", commentID),
		slog.String("actor", caller.UserID),
	)

	return comment, nil
}

// Delete removes a comment. Author, moderator, or admin.
func (service *Service) Delete(context context.Context, caller *sec.Identity, titleID, reviewID, commentID int64) error {
	if err := service.requireReview(context, titleID, reviewID); err != nil {
		return err
	}

	comment, err := service.repo.GetByID(context, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authz.CanMutateAuthored(caller, comment.AuthorID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID, commentID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", commentID),
		slog.String("actor", caller.UserID),
	)

	return nil
}

func (service *Service) requireReview(context context.Context, titleID, reviewID int64) error {
	exists, err := service.repo.ReviewExists(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Review")
	}
	return nil
}
