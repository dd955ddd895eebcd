// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package account implements user administration and profile self-service.

Administrators manage the full account lifecycle by username; every
authenticated user can read and edit their own profile through the "me"
surface, where the role is strictly read-only.
*/
package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/authz"
	"github.com/revuo/revuo/internal/platform/constants"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/platform/validate"
	"github.com/revuo/revuo/internal/users/auth"
	"github.com/revuo/revuo/pkg/pagination"
	"github.com/revuo/revuo/pkg/uuid"
)

// Service implements account administration use cases on top of the shared
// user repository.
type Service struct {
	repo   auth.UserRepository
	logger *slog.Logger
}

// NewService constructs an account [Service].
func NewService(repo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Administration

// List returns a page of accounts. Admin only.
func (service *Service) List(context context.Context, caller *sec.Identity, search string, page pagination.Params) ([]auth.User, int, error) {
	if err := authz.CanManageUsers(caller); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, search, page)
}

// Get returns a single account by username. Admin only.
func (service *Service) Get(context context.Context, caller *sec.Identity, username string) (*auth.User, error) {
	if err := authz.CanManageUsers(caller); err != nil {
		return nil, err
	}

	return service.repo.FindByUsername(context, username)
}

// CreateInput holds the data for an admin-created account.
type CreateInput struct {
	Username  string
	Email     string
	Role      string
	Bio       string
	FirstName string
	LastName  string
}

// Create provisions an account directly, skipping the confirmation flow.
// Admin only. An empty role defaults to the standard user role.
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*auth.User, error) {
	if err := authz.CanManageUsers(caller); err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		Username(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxUsernameLength).
		Custom(auth.FieldUsername, input.Username == constants.ReservedUsernameMe, "This username is reserved").
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.MaxEmailLength).
		Custom(auth.FieldRole, !sec.UserRole(input.Role).IsValid(), "Unknown role").
		MaxLen(auth.FieldBio, input.Bio, auth.MaxBioLength).
		MaxLen(auth.FieldFirstName, input.FirstName, auth.MaxNameLength).
		MaxLen(auth.FieldLastName, input.LastName, auth.MaxNameLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		Role:      sec.UserRole(input.Role),
		Bio:       input.Bio,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("actor", caller.UserID),
	)

	return user, nil
}

// PatchInput describes a partial account edit. Nil fields are untouched.
type PatchInput struct {
	Email     *string
	Role      *string
	Bio       *string
	FirstName *string
	LastName  *string
}

// Update applies a partial edit to an account by username. Admin only;
// changing the role additionally passes the role-edit gate.
func (service *Service) Update(context context.Context, caller *sec.Identity, username string, input PatchInput) (*auth.User, error) {
	if err := authz.CanManageUsers(caller); err != nil {
		return nil, err
	}

	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if err := authz.CanEditRole(caller); err != nil {
			return nil, err
		}
	}

	patched, err := applyPatch(user, input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, patched); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_updated",
		slog.String("username", username),
		slog.String("actor", caller.UserID),
	)

	return patched, nil
}

// Delete removes an account by username. Admin only. Authored reviews and
// comments disappear with it, and the repository recomputes the rating of
// every title the account had reviewed before the deletion commits.
func (service *Service) Delete(context context.Context, caller *sec.Identity, username string) error {
	if err := authz.CanManageUsers(caller); err != nil {
		return err
	}

	if err := service.repo.Delete(context, username); err != nil {
		return err
	}

	service.logger.InfoContext(context, "account_deleted",
		slog.String("username", username),
		slog.String("actor", caller.UserID),
	)

	return nil
}

// # Self Service

// GetMe returns the caller's own account.
func (service *Service) GetMe(context context.Context, caller *sec.Identity) (*auth.User, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return service.repo.FindByID(context, caller.UserID)
}

// PatchMe edits the caller's own profile. The role field has no input
// here: it is read-only on the self-service surface no matter who asks.
func (service *Service) PatchMe(context context.Context, caller *sec.Identity, input PatchInput) (*auth.User, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if input.Role != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: "Role cannot be changed here",
		})
	}

	user, err := service.repo.FindByID(context, caller.UserID)
	if err != nil {
		return nil, err
	}

	patched, err := applyPatch(user, input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, patched); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated",
		slog.String("user_id", caller.UserID),
	)

	return patched, nil
}

// applyPatch validates and folds a partial edit into the stored account.
func applyPatch(user *auth.User, input PatchInput) (*auth.User, error) {
	validator := &validate.Validator{}

	if input.Email != nil {
		trimmed := strings.TrimSpace(*input.Email)
		validator.Required(auth.FieldEmail, trimmed).
			Email(auth.FieldEmail, trimmed).
			MaxLen(auth.FieldEmail, trimmed, auth.MaxEmailLength)
		user.Email = trimmed
	}
	if input.Role != nil {
		validator.Custom(auth.FieldRole, !sec.UserRole(*input.Role).IsValid(), "Unknown role")
		user.Role = sec.UserRole(*input.Role)
	}
	if input.Bio != nil {
		validator.MaxLen(auth.FieldBio, *input.Bio, auth.MaxBioLength)
		user.Bio = *input.Bio
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.MaxNameLength)
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.MaxNameLength)
		user.LastName = *input.LastName
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return user, nil
}
