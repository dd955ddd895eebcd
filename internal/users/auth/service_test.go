// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/pkg/pagination"
)

// # Test Fakes

type fakeUserRepository struct {
	users map[string]*User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) List(_ context.Context, _ string, _ pagination.Params) ([]User, int, error) {
	out := make([]User, 0, len(repository.users))
	for _, user := range repository.users {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	stored := *user
	repository.users[user.ID] = &stored
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *User) error {
	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	stored := *user
	repository.users[user.ID] = &stored
	return nil
}

func (repository *fakeUserRepository) Delete(_ context.Context, username string) error {
	for id, user := range repository.users {
		if user.Username == username {
			delete(repository.users, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

type fakeCodeRepository struct {
	hashes map[string]string
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{hashes: make(map[string]string)}
}

func (repository *fakeCodeRepository) Set(_ context.Context, userID, codeHash string, _ time.Duration) error {
	repository.hashes[userID] = codeHash
	return nil
}

func (repository *fakeCodeRepository) Get(_ context.Context, userID string) (string, error) {
	if hash, ok := repository.hashes[userID]; ok {
		return hash, nil
	}
	return "", apperr.NotFound("Confirmation code")
}

func (repository *fakeCodeRepository) Delete(_ context.Context, userID string) error {
	delete(repository.hashes, userID)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(identity *sec.Identity, _ time.Duration) (string, error) {
	return "signed-token-for-" + identity.Username, nil
}

// capturingSender records outgoing mail and can simulate relay failures.
type capturingSender struct {
	lastRecipient string
	lastBody      string
	fail          bool
}

func (sender *capturingSender) Send(_ context.Context, recipient, _, body string) error {
	if sender.fail {
		return errors.New("smtp: connection refused")
	}
	sender.lastRecipient = recipient
	sender.lastBody = body
	return nil
}

// lastCode digs the plaintext code out of the captured mail body.
func (sender *capturingSender) lastCode(t *testing.T) string {
	t.Helper()
	_, after, found := strings.Cut(sender.lastBody, "code is: ")
	require.True(t, found, "mail body carries no code: %q", sender.lastBody)
	return strings.Fields(after)[0]
}

func testService(t *testing.T) (*Service, *fakeUserRepository, *capturingSender) {
	t.Helper()
	users := newFakeUserRepository()
	sender := &capturingSender{}
	service := NewService(users, newFakeCodeRepository(), fakeTokenProvider{}, sender, slog.Default())
	return service, users, sender
}

// # Signup

func TestService_Signup(t *testing.T) {
	t.Run("new account gets the user role and a mailed code", func(t *testing.T) {
		service, _, sender := testService(t)

		user, err := service.Signup(context.Background(), SignupInput{
			Email:    "ana@example.com",
			Username: "ana",
		})
		require.NoError(t, err)

		assert.Equal(t, sec.RoleUser, user.Role)
		assert.Equal(t, "ana@example.com", sender.lastRecipient)
		assert.NotEmpty(t, sender.lastCode(t))
	})

	t.Run("repeating the exact pair reissues a code", func(t *testing.T) {
		service, users, sender := testService(t)

		first, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)
		firstCode := sender.lastCode(t)

		second, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "no duplicate account")
		assert.Len(t, users.users, 1)
		assert.NotEqual(t, firstCode, sender.lastCode(t), "a fresh code is issued")
	})

	t.Run("username collision names the username field", func(t *testing.T) {
		service, _, _ := testService(t)

		_, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)

		_, err = service.Signup(context.Background(), SignupInput{Email: "other@example.com", Username: "ana"})
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, FieldUsername, appError.Details[0].Field)
	})

	t.Run("email collision names the email field", func(t *testing.T) {
		service, _, _ := testService(t)

		_, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)

		_, err = service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "other"})
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, FieldEmail, appError.Details[0].Field)
	})

	t.Run("reserved username me is rejected", func(t *testing.T) {
		service, _, _ := testService(t)

		_, err := service.Signup(context.Background(), SignupInput{Email: "me@example.com", Username: "me"})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("malformed input is rejected", func(t *testing.T) {
		service, _, _ := testService(t)

		testCases := []SignupInput{
			{Email: "not-an-email", Username: "ana"},
			{Email: "ana@example.com", Username: "spaces in name"},
			{Email: "", Username: "ana"},
			{Email: "ana@example.com", Username: ""},
		}
		for _, input := range testCases {
			_, err := service.Signup(context.Background(), input)
			assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"), "input %+v", input)
		}
	})

	t.Run("mail failure does not fail the signup", func(t *testing.T) {
		service, users, sender := testService(t)
		sender.fail = true

		_, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)
		assert.Len(t, users.users, 1)
	})
}

// # Token Exchange

func TestService_Token(t *testing.T) {
	signup := func(t *testing.T, service *Service, sender *capturingSender) string {
		t.Helper()
		_, err := service.Signup(context.Background(), SignupInput{Email: "ana@example.com", Username: "ana"})
		require.NoError(t, err)
		return sender.lastCode(t)
	}

	t.Run("valid exchange yields a token", func(t *testing.T) {
		service, _, sender := testService(t)
		code := signup(t, service, sender)

		token, err := service.Token(context.Background(), TokenInput{Username: "ana", ConfirmationCode: code})
		require.NoError(t, err)
		assert.Equal(t, "signed-token-for-ana", token)
	})

	t.Run("codes are single use", func(t *testing.T) {
		service, _, sender := testService(t)
		code := signup(t, service, sender)

		_, err := service.Token(context.Background(), TokenInput{Username: "ana", ConfirmationCode: code})
		require.NoError(t, err)

		_, err = service.Token(context.Background(), TokenInput{Username: "ana", ConfirmationCode: code})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		service, _, _ := testService(t)

		_, err := service.Token(context.Background(), TokenInput{Username: "ghost", ConfirmationCode: "whatever"})
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("wrong code is a validation error", func(t *testing.T) {
		service, _, sender := testService(t)
		signup(t, service, sender)

		_, err := service.Token(context.Background(), TokenInput{Username: "ana", ConfirmationCode: "WRONGCODE1234567"})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("known user without an issued code is a validation error", func(t *testing.T) {
		service, users, _ := testService(t)
		require.NoError(t, users.Create(context.Background(), &User{ID: "u1", Username: "cold", Email: "cold@example.com", Role: sec.RoleUser}))

		_, err := service.Token(context.Background(), TokenInput{Username: "cold", ConfirmationCode: "ANYTHING"})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}
