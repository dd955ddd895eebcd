// Copyright (c) 2026 Revuo. All rights reserved.

package title

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuo/revuo/internal/catalog/category"
	"github.com/revuo/revuo/internal/catalog/genre"
	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/sec"
	"github.com/revuo/revuo/pkg/pagination"
)

type fakeRepository struct {
	titles map[int64]*Title
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{titles: make(map[int64]*Title)}
}

func (repository *fakeRepository) List(_ context.Context, filter Filter, _ pagination.Params) ([]Title, int, error) {
	out := make([]Title, 0)
	for _, title := range repository.titles {
		if filter.CategorySlug != "" && title.Category.Slug != filter.CategorySlug {
			continue
		}
		if filter.Year != nil && title.Year != *filter.Year {
			continue
		}
		out = append(out, *title)
	}
	return out, len(out), nil
}

func (repository *fakeRepository) GetByID(_ context.Context, id int64) (*Title, error) {
	title, ok := repository.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	copied := *title
	return &copied, nil
}

func (repository *fakeRepository) Create(_ context.Context, title *Title) error {
	repository.nextID++
	title.ID = repository.nextID
	stored := *title
	repository.titles[title.ID] = &stored
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, id int64, patch Patch) error {
	title, ok := repository.titles[id]
	if !ok {
		return apperr.NotFound("Title")
	}
	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		title.CategoryID = *patch.CategoryID
	}
	if patch.GenreIDs != nil {
		title.GenreIDs = patch.GenreIDs
	}
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := repository.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repository.titles, id)
	return nil
}

type fakeCategoryResolver struct {
	known map[string]int64
}

func (resolver *fakeCategoryResolver) Get(_ context.Context, slug string) (*category.Category, error) {
	id, ok := resolver.known[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return &category.Category{ID: id, Slug: slug}, nil
}

type fakeGenreResolver struct {
	known map[string]int64
}

func (resolver *fakeGenreResolver) Get(_ context.Context, slug string) (*genre.Genre, error) {
	id, ok := resolver.known[slug]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	return &genre.Genre{ID: id, Slug: slug}, nil
}

func testService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repository := newFakeRepository()
	service := NewService(
		repository,
		&fakeCategoryResolver{known: map[string]int64{"movies": 1, "books": 2}},
		&fakeGenreResolver{known: map[string]int64{"drama": 10, "comedy": 11}},
		slog.Default(),
	)
	return service, repository
}

func adminIdentity() *sec.Identity {
	return &sec.Identity{UserID: "admin-1", Role: sec.RoleAdmin}
}

func validInput() CreateInput {
	return CreateInput{
		Name:         "The Green Mile",
		Year:         1999,
		CategorySlug: "movies",
		GenreSlugs:   []string{"drama"},
	}
}

func TestService_Create(t *testing.T) {
	t.Run("admin creates a title with resolved refs", func(t *testing.T) {
		service, repository := testService(t)

		created, err := service.Create(context.Background(), adminIdentity(), validInput())
		require.NoError(t, err)

		stored := repository.titles[created.ID]
		assert.Equal(t, int64(1), stored.CategoryID)
		assert.Equal(t, []int64{10}, stored.GenreIDs)
		assert.Nil(t, stored.Rating, "a fresh title has no rating")
	})

	t.Run("non admin is rejected", func(t *testing.T) {
		service, _ := testService(t)

		_, err := service.Create(context.Background(), &sec.Identity{UserID: "u1", Role: sec.RoleUser}, validInput())
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))

		_, err = service.Create(context.Background(), nil, validInput())
		assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("future year is rejected", func(t *testing.T) {
		service, _ := testService(t)

		input := validInput()
		input.Year = time.Now().Year() + 1

		_, err := service.Create(context.Background(), adminIdentity(), input)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("current year is accepted", func(t *testing.T) {
		service, _ := testService(t)

		input := validInput()
		input.Year = time.Now().Year()

		_, err := service.Create(context.Background(), adminIdentity(), input)
		assert.NoError(t, err)
	})

	t.Run("unknown category slug is a validation error", func(t *testing.T) {
		service, _ := testService(t)

		input := validInput()
		input.CategorySlug = "nope"

		_, err := service.Create(context.Background(), adminIdentity(), input)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Equal(t, FieldCategory, appError.Details[0].Field)
	})

	t.Run("unknown genre slug is a validation error", func(t *testing.T) {
		service, _ := testService(t)

		input := validInput()
		input.GenreSlugs = []string{"drama", "nope"}

		_, err := service.Create(context.Background(), adminIdentity(), input)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, FieldGenre, appError.Details[0].Field)
	})

	t.Run("missing category is rejected", func(t *testing.T) {
		service, _ := testService(t)

		input := validInput()
		input.CategorySlug = ""

		_, err := service.Create(context.Background(), adminIdentity(), input)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestService_Update(t *testing.T) {
	service, repository := testService(t)
	admin := adminIdentity()

	created, err := service.Create(context.Background(), admin, validInput())
	require.NoError(t, err)

	t.Run("partial patch touches only named fields", func(t *testing.T) {
		newName := "The Shawshank Redemption"
		_, err := service.Update(context.Background(), admin, created.ID, UpdateInput{Name: &newName})
		require.NoError(t, err)

		stored := repository.titles[created.ID]
		assert.Equal(t, newName, stored.Name)
		assert.Equal(t, 1999, stored.Year)
		assert.Equal(t, []int64{10}, stored.GenreIDs, "nil genre slice leaves links alone")
	})

	t.Run("genre list replacement", func(t *testing.T) {
		_, err := service.Update(context.Background(), admin, created.ID, UpdateInput{GenreSlugs: []string{"comedy"}})
		require.NoError(t, err)

		assert.Equal(t, []int64{11}, repository.titles[created.ID].GenreIDs)
	})

	t.Run("category change via slug", func(t *testing.T) {
		slug := "books"
		_, err := service.Update(context.Background(), admin, created.ID, UpdateInput{CategorySlug: &slug})
		require.NoError(t, err)

		assert.Equal(t, int64(2), repository.titles[created.ID].CategoryID)
	})

	t.Run("non admin cannot patch", func(t *testing.T) {
		name := "x"
		_, err := service.Update(context.Background(), &sec.Identity{UserID: "u1", Role: sec.RoleModerator}, created.ID, UpdateInput{Name: &name})
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("missing title is not found", func(t *testing.T) {
		name := "x"
		_, err := service.Update(context.Background(), admin, 9999, UpdateInput{Name: &name})
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

func TestService_Delete(t *testing.T) {
	service, _ := testService(t)
	admin := adminIdentity()

	created, err := service.Create(context.Background(), admin, validInput())
	require.NoError(t, err)

	err = service.Delete(context.Background(), &sec.Identity{UserID: "u1", Role: sec.RoleUser}, created.ID)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))

	require.NoError(t, service.Delete(context.Background(), admin, created.ID))

	_, err = service.Get(context.Background(), created.ID)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
