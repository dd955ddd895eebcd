// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/constants"
	"github.com/revuo/revuo/internal/platform/mail"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/platform/validate"
	"github.com/revuo/revuo/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for the given identity.
	GenerateAccessToken(identity *sec.Identity, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code issuance or
// the exchange logic must be reviewed before merging.
type Service struct {
	userRepository UserRepository
	codeRepository CodeRepository
	tokenProvider  TokenProvider
	mailSender     mail.Sender
	logger         *slog.Logger
}

// NewService constructs an auth [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo CodeRepository,
	tokenProv TokenProvider,
	mailSender mail.Sender,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		tokenProvider:  tokenProv,
		mailSender:     mailSender,
		logger:         logger,
	}
}

// # Signup Flow

// SignupInput holds the data required to request a confirmation code.
type SignupInput struct {
	Email    string
	Username string
}

/*
Signup registers an account (or re-confirms an existing one) and emails a
confirmation code.

Repeating signup with the exact (email, username) pair of an existing
account is not an error: a fresh code is issued, which is the recovery path
for a lost code. A collision on only one of the two fields is rejected with
a message naming the conflicting field.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The registered account
  - error: Validation, collision, or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Custom(FieldUsername, input.Username == constants.ReservedUsernameMe, "This username is reserved")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.resolveAccount(context, input)
	if err != nil {
		return nil, err
	}

	code, err := sec.GenerateConfirmationCode(ConfirmationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	// Only the hash touches the store; the plaintext goes out by mail and
	// is then gone for good.
	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.codeRepository.Set(context, user.ID, codeHash, ConfirmationCodeTTL); err != nil {
		return nil, err
	}

	service.sendConfirmationCode(context, user, code)

	service.logger.InfoContext(context, "signup_code_issued",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// resolveAccount finds the account matching the signup pair, or creates a
// new one. Partial matches are collisions.
func (service *Service) resolveAccount(context context.Context, input SignupInput) (*User, error) {
	byUsername, usernameErr := service.userRepository.FindByUsername(context, input.Username)
	if usernameErr == nil {
		if byUsername.Email == input.Email {
			// Same pair: legitimate re-request of a confirmation code.
			return byUsername, nil
		}
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUsername,
			Message: "This username is already taken",
		})
	}
	if !apperr.IsCode(usernameErr, "NOT_FOUND") {
		return nil, usernameErr
	}

	_, emailErr := service.userRepository.FindByEmail(context, input.Email)
	if emailErr == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldEmail,
			Message: "This email is already registered",
		})
	}
	if !apperr.IsCode(emailErr, "NOT_FOUND") {
		return nil, emailErr
	}

	// Time-sortable ID to keep the PK index append-only.
	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// sendConfirmationCode delivers the code by mail. Delivery is best-effort:
// a failure is logged and swallowed so a flaky SMTP relay cannot block
// registration. The code stays valid for a later re-request.
func (service *Service) sendConfirmationCode(context context.Context, user *User, code string) {
	subject := "Your Revuo confirmation code"
	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is: %s\n\nIt expires in %s.",
		user.Username, code, ConfirmationCodeTTL)

	if err := service.mailSender.Send(context, user.Email, subject, body); err != nil {
		service.logger.ErrorContext(context, "confirmation_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

// # Token Exchange Flow

// TokenInput holds the credentials for the code-for-token exchange.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
Token exchanges a username plus confirmation code for a signed access token.

An unknown username is 404, mirroring that usernames are public resource
identifiers here. A wrong, expired, or never-issued code is a validation
error. The code is single-use: it is burned on success.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed JWT access token
  - error: NotFound, validation, or signing errors
*/
func (service *Service) Token(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return "", apperr.NotFound("User")
		}
		return "", err
	}

	codeHash, err := service.codeRepository.Get(context, user.ID)
	if err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return "", apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldConfirmationCode,
				Message: "Confirmation code is invalid or expired",
			})
		}
		return "", err
	}

	if !sec.CheckSecretHash(input.ConfirmationCode, codeHash) {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldConfirmationCode,
			Message: "Confirmation code is invalid or expired",
		})
	}

	// Burn the code; failure here only shortens the code's life, so it is
	// not fatal to the exchange.
	if err := service.codeRepository.Delete(context, user.ID); err != nil {
		service.logger.WarnContext(context, "confirmation_code_burn_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.Identity(), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.InfoContext(context, "access_token_issued",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}
