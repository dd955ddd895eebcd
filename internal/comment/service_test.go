// Copyright (c) 2026 Revuo. All rights reserved.

package comment

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

type reviewKey struct {
	titleID  int64
	reviewID int64
}

type fakeRepository struct {
	reviews  map[reviewKey]bool
	comments map[int64]*Comment
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		reviews:  map[reviewKey]bool{{titleID: 1, reviewID: 10}: true},
		comments: make(map[int64]*Comment),
	}
}

func (repository *fakeRepository) ReviewExists(_ context.Context, titleID, reviewID int64) (bool, error) {
	return repository.reviews[reviewKey{titleID: titleID, reviewID: reviewID}], nil
}

func (repository *fakeRepository) ListByReview(_ context.Context, reviewID int64, _ pagination.Params) ([]Comment, int, error) {
	out := make([]Comment, 0)
	for _, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			out = append(out, *comment)
		}
	}
	return out, len(out), nil
}

func (repository *fakeRepository) GetByID(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	comment, ok := repository.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	copied := *comment
	return &copied, nil
}

func (repository *fakeRepository) Create(_ context.Context, comment *Comment) error {
	repository.nextID++
	comment.ID = repository.nextID
	stored := *comment
	repository.comments[comment.ID] = &stored
	return nil
}

func (repository *fakeRepository) Update(_ context.Context, comment *Comment) error {
	stored, ok := repository.comments[comment.ID]
	if !ok || stored.ReviewID != comment.ReviewID {
		return apperr.NotFound("Comment")
	}
	stored.Text = comment.Text
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, reviewID, commentID int64) error {
	comment, ok := repository.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, commentID)
	return nil
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(newFakeRepository(), slog.Default())
}

func userIdentity(id string) *sec.Identity {
	return &sec.Identity{UserID: id, Username: "user-" + id, Role: sec.RoleUser}
}

func TestService_Create(t *testing.T) {
	t.Run("authenticated user comments on a review", func(t *testing.T) {
		service := testService(t)

		created, err := service.Create(context.Background(), userIdentity("a"), 1, 10, "good point")
		require.NoError(t, err)
		assert.Equal(t, "user-a", created.Author)
	})

	t.Run("multiple comments by the same author are fine", func(t *testing.T) {
		service := testService(t)
		author := userIdentity("a")

		_, err := service.Create(context.Background(), author, 1, 10, "first")
		require.NoError(t, err)
		_, err = service.Create(context.Background(), author, 1, 10, "second")
		require.NoError(t, err)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		service := testService(t)

		_, err := service.Create(context.Background(), nil, 1, 10, "hi")
		assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("absent review wins over authentication", func(t *testing.T) {
		service := testService(t)

		_, err := service.Create(context.Background(), nil, 1, 404, "hi")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("review under the wrong title is not found", func(t *testing.T) {
		service := testService(t)

		_, err := service.Create(context.Background(), userIdentity("a"), 2, 10, "hi")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		service := testService(t)

		_, err := service.Create(context.Background(), userIdentity("a"), 1, 10, "  ")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestService_UpdateDelete(t *testing.T) {
	setup := func(t *testing.T) (*Service, *Comment) {
		service := testService(t)
		created, err := service.Create(context.Background(), userIdentity("author"), 1, 10, "original")
		require.NoError(t, err)
		return service, created
	}

	t.Run("author edits own comment", func(t *testing.T) {
		service, created := setup(t)

		updated, err := service.Update(context.Background(), userIdentity("author"), 1, 10, created.ID, "fixed")
		require.NoError(t, err)
		assert.Equal(t, "fixed", updated.Text)
	})

	t.Run("moderator deletes a stranger's comment", func(t *testing.T) {
		service, created := setup(t)

		moderator := &sec.Identity{UserID: "mod", Username: "mod", Role: sec.RoleModerator}
		require.NoError(t, service.Delete(context.Background(), moderator, 1, 10, created.ID))
	})

	t.Run("stranger cannot edit or delete", func(t *testing.T) {
		service, created := setup(t)
		stranger := userIdentity("stranger")

		_, err := service.Update(context.Background(), stranger, 1, 10, created.ID, "defaced")
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))

		err = service.Delete(context.Background(), stranger, 1, 10, created.ID)
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("missing comment is not found", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Update(context.Background(), userIdentity("author"), 1, 10, 9999, "x")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}
