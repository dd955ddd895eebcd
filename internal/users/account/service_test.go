// Copyright (c) 2026 Revuo. All rights reserved.

package account

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/internal/users/auth"
	"github.com/revuo/revuo/pkg/pagination"
)

type fakeUserRepository struct {
	users map[string]*auth.User

	// reviewScores mirrors the repository's cascade surface: title ID →
	// author ID → score. Delete drops the departing account's scores and
	// recomputes each affected title's rating, per the Delete contract.
	reviewScores map[int64]map[string]int
	ratings      map[int64]*float64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:        make(map[string]*auth.User),
		reviewScores: make(map[int64]map[string]int),
		ratings:      make(map[int64]*float64),
	}
}

func (repository *fakeUserRepository) seedReview(titleID int64, authorID string, score int) {
	if repository.reviewScores[titleID] == nil {
		repository.reviewScores[titleID] = make(map[string]int)
	}
	repository.reviewScores[titleID][authorID] = score
	repository.refreshRating(titleID)
}

func (repository *fakeUserRepository) refreshRating(titleID int64) {
	scores := repository.reviewScores[titleID]
	if len(scores) == 0 {
		repository.ratings[titleID] = nil
		return
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	rating := float64(sum) / float64(len(scores))
	repository.ratings[titleID] = &rating
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repository.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) List(_ context.Context, _ string, _ pagination.Params) ([]auth.User, int, error) {
	out := make([]auth.User, 0, len(repository.users))
	for _, user := range repository.users {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func (repository *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repository.users {
		if existing.Username == user.Username {
			return apperr.Conflict("Username is already taken")
		}
	}
	stored := *user
	repository.users[user.ID] = &stored
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
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
			for titleID, scores := range repository.reviewScores {
				if _, reviewed := scores[id]; reviewed {
					delete(scores, id)
					repository.refreshRating(titleID)
				}
			}
			return nil
		}
	}
	return apperr.NotFound("User")
}

func testService(t *testing.T) (*Service, *fakeUserRepository) {
	t.Helper()
	repository := newFakeUserRepository()
	return NewService(repository, slog.Default()), repository
}

func adminIdentity() *sec.Identity {
	return &sec.Identity{UserID: "admin-1", Username: "boss", Role: sec.RoleAdmin}
}

func seedUser(t *testing.T, repository *fakeUserRepository, id, username string, role sec.UserRole) {
	t.Helper()
	require.NoError(t, repository.Create(context.Background(), &auth.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}))
}

func TestService_AdminGate(t *testing.T) {
	service, repository := testService(t)
	seedUser(t, repository, "u1", "ana", sec.RoleUser)

	callers := []struct {
		name     string
		caller   *sec.Identity
		wantCode string
	}{
		{name: "anonymous", caller: nil, wantCode: "UNAUTHORIZED"},
		{name: "regular user", caller: &sec.Identity{UserID: "u1", Role: sec.RoleUser}, wantCode: "FORBIDDEN"},
		{name: "moderator", caller: &sec.Identity{UserID: "m1", Role: sec.RoleModerator}, wantCode: "FORBIDDEN"},
	}

	for _, testCase := range callers {
		t.Run(testCase.name, func(t *testing.T) {
			_, _, err := service.List(context.Background(), testCase.caller, "", pagination.Params{Page: 1, Limit: 10})
			assert.True(t, apperr.IsCode(err, testCase.wantCode))

			_, err = service.Get(context.Background(), testCase.caller, "ana")
			assert.True(t, apperr.IsCode(err, testCase.wantCode))

			err = service.Delete(context.Background(), testCase.caller, "ana")
			assert.True(t, apperr.IsCode(err, testCase.wantCode))
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Run("admin provisions an account with a role", func(t *testing.T) {
		service, _ := testService(t)

		created, err := service.Create(context.Background(), adminIdentity(), CreateInput{
			Username: "mod",
			Email:    "mod@example.com",
			Role:     "moderator",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, created.Role)
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		service, _ := testService(t)

		created, err := service.Create(context.Background(), adminIdentity(), CreateInput{
			Username: "plain",
			Email:    "plain@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleUser, created.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		service, _ := testService(t)

		_, err := service.Create(context.Background(), adminIdentity(), CreateInput{
			Username: "x",
			Email:    "x@example.com",
			Role:     "overlord",
		})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("reserved username is rejected", func(t *testing.T) {
		service, _ := testService(t)

		_, err := service.Create(context.Background(), adminIdentity(), CreateInput{
			Username: "me",
			Email:    "me@example.com",
		})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("admin promotes a user to moderator", func(t *testing.T) {
		service, repository := testService(t)
		seedUser(t, repository, "u1", "ana", sec.RoleUser)

		role := "moderator"
		updated, err := service.Update(context.Background(), adminIdentity(), "ana", PatchInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, updated.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		service, repository := testService(t)
		seedUser(t, repository, "u1", "ana", sec.RoleUser)

		role := "royalty"
		_, err := service.Update(context.Background(), adminIdentity(), "ana", PatchInput{Role: &role})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("missing user is not found", func(t *testing.T) {
		service, _ := testService(t)

		bio := "hi"
		_, err := service.Update(context.Background(), adminIdentity(), "ghost", PatchInput{Bio: &bio})
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

func TestService_Delete_RefreshesReviewedTitleRatings(t *testing.T) {
	service, repository := testService(t)
	seedUser(t, repository, "u1", "critic", sec.RoleUser)
	seedUser(t, repository, "u2", "rival", sec.RoleUser)

	repository.seedReview(1, "u1", 8)
	repository.seedReview(2, "u1", 8)
	repository.seedReview(2, "u2", 6)

	require.NoError(t, service.Delete(context.Background(), adminIdentity(), "critic"))

	assert.Nil(t, repository.ratings[1], "sole-reviewer title returns to unrated")
	require.NotNil(t, repository.ratings[2])
	assert.InDelta(t, 6.0, *repository.ratings[2], 0.001, "surviving review alone sets the average")
}

func TestService_Me(t *testing.T) {
	t.Run("caller reads own profile", func(t *testing.T) {
		service, repository := testService(t)
		seedUser(t, repository, "u1", "ana", sec.RoleUser)

		user, err := service.GetMe(context.Background(), &sec.Identity{UserID: "u1", Username: "ana", Role: sec.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, "ana", user.Username)
	})

	t.Run("caller edits profile fields", func(t *testing.T) {
		service, repository := testService(t)
		seedUser(t, repository, "u1", "ana", sec.RoleUser)

		bio := "reviewer of long novels"
		updated, err := service.PatchMe(context.Background(), &sec.Identity{UserID: "u1", Role: sec.RoleUser}, PatchInput{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, bio, updated.Bio)
	})

	t.Run("role is read-only on the me surface even for admins", func(t *testing.T) {
		service, repository := testService(t)
		seedUser(t, repository, "a1", "boss", sec.RoleAdmin)

		role := "user"
		_, err := service.PatchMe(context.Background(), &sec.Identity{UserID: "a1", Role: sec.RoleAdmin}, PatchInput{Role: &role})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("anonymous has no profile", func(t *testing.T) {
		service, _ := testService(t)

		_, err := service.GetMe(context.Background(), nil)
		assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
	})
}
