// Copyright (c) 2026 Revuo. All rights reserved.

package category

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/pkg/pagination"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	categories map[string]*Category
	referenced map[string]bool
	nextID     int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		categories: make(map[string]*Category),
		referenced: make(map[string]bool),
	}
}

func (repository *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]Category, int, error) {
	out := make([]Category, 0, len(repository.categories))
	for _, category := range repository.categories {
		out = append(out, *category)
	}
	return out, len(out), nil
}

func (repository *fakeRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	category, ok := repository.categories[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	copied := *category
	return &copied, nil
}

func (repository *fakeRepository) Create(_ context.Context, category *Category) error {
	if _, ok := repository.categories[category.Slug]; ok {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldSlug,
			Message: "This slug is already in use",
		})
	}
	repository.nextID++
	category.ID = repository.nextID
	stored := *category
	repository.categories[category.Slug] = &stored
	return nil
}

func (repository *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := repository.categories[slug]; !ok {
		return apperr.NotFound("Category")
	}
	if repository.referenced[slug] {
		return apperr.Protected("Category is still referenced by titles")
	}
	delete(repository.categories, slug)
	return nil
}

func testService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	return NewService(repository, slog.Default()), repository
}

func adminIdentity() *sec.Identity {
	return &sec.Identity{UserID: "admin-1", Username: "boss", Role: sec.RoleAdmin}
}

func TestService_Create_Permissions(t *testing.T) {
	testCases := []struct {
		name     string
		caller   *sec.Identity
		wantCode string
	}{
		{
			name:     "anonymous is rejected",
			caller:   nil,
			wantCode: "UNAUTHORIZED",
		},
		{
			name:     "regular user is rejected",
			caller:   &sec.Identity{UserID: "u1", Role: sec.RoleUser},
			wantCode: "FORBIDDEN",
		},
		{
			name:     "moderator is rejected",
			caller:   &sec.Identity{UserID: "m1", Role: sec.RoleModerator},
			wantCode: "FORBIDDEN",
		},
		{
			name:   "admin role is allowed",
			caller: adminIdentity(),
		},
		{
			name:   "superuser flag is allowed regardless of role",
			caller: &sec.Identity{UserID: "s1", Role: sec.RoleUser, IsSuperuser: true},
		},
		{
			name:   "staff flag is allowed regardless of role",
			caller: &sec.Identity{UserID: "st1", Role: sec.RoleUser, IsStaff: true},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, _ := testService(t)

			_, err := service.Create(context.Background(), testCase.caller, CreateInput{Name: "Movies"})

			if testCase.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, testCase.wantCode), "got %v", err)
		})
	}
}

func TestService_Create_SlugDerivation(t *testing.T) {
	service, _ := testService(t)

	created, err := service.Create(context.Background(), adminIdentity(), CreateInput{Name: "Science Fiction"})
	require.NoError(t, err)

	assert.Equal(t, "sciencefiction", created.Slug)
	assert.Equal(t, "Science Fiction", created.Name)
}

func TestService_Create_ExplicitSlugWins(t *testing.T) {
	service, _ := testService(t)

	created, err := service.Create(context.Background(), adminIdentity(), CreateInput{
		Name: "Science Fiction",
		Slug: "scifi",
	})
	require.NoError(t, err)

	assert.Equal(t, "scifi", created.Slug)
}

func TestService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name      string
		input     CreateInput
		wantField string
	}{
		{
			name:      "empty name",
			input:     CreateInput{Name: "   "},
			wantField: FieldName,
		},
		{
			name:      "name too long",
			input:     CreateInput{Name: string(makeRepeated('a', MaxNameLength+1))},
			wantField: FieldName,
		},
		{
			name:      "slug with invalid characters",
			input:     CreateInput{Name: "Movies", Slug: "mov-ies!"},
			wantField: FieldSlug,
		},
		{
			name:      "slug too long",
			input:     CreateInput{Name: "Movies", Slug: string(makeRepeated('a', MaxSlugLength+1))},
			wantField: FieldSlug,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, _ := testService(t)

			_, err := service.Create(context.Background(), adminIdentity(), testCase.input)

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			require.NotEmpty(t, appError.Details)
			assert.Equal(t, testCase.wantField, appError.Details[0].Field)
		})
	}
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	service, _ := testService(t)
	admin := adminIdentity()

	_, err := service.Create(context.Background(), admin, CreateInput{Name: "Movies"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), admin, CreateInput{Name: "Movies"})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}

func TestService_Delete(t *testing.T) {
	service, repository := testService(t)
	admin := adminIdentity()

	_, err := service.Create(context.Background(), admin, CreateInput{Name: "Movies"})
	require.NoError(t, err)

	t.Run("non admin cannot delete", func(t *testing.T) {
		err := service.Delete(context.Background(), &sec.Identity{UserID: "u1", Role: sec.RoleUser}, "movies")
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("referenced category is protected", func(t *testing.T) {
		repository.referenced["movies"] = true
		err := service.Delete(context.Background(), admin, "movies")
		assert.True(t, apperr.IsCode(err, "PROTECTED"))
		repository.referenced["movies"] = false
	})

	t.Run("admin deletes unreferenced category", func(t *testing.T) {
		err := service.Delete(context.Background(), admin, "movies")
		require.NoError(t, err)

		_, err = service.Get(context.Background(), "movies")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("deleting a missing slug is not found", func(t *testing.T) {
		err := service.Delete(context.Background(), admin, "nope")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("missing category names itself in the error", func(t *testing.T) {
		_, err := service.Get(context.Background(), "ghost")
		require.True(t, apperr.IsCode(err, "NOT_FOUND"))
		assert.Equal(t, "Category not found", apperr.As(err).Message)
	})
}

func makeRepeated(char byte, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = char
	}
	return out
}
