package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, prefix string) *models.User {
	t.Helper()
	ts := time.Now().UnixNano()
	u := &models.User{
		Username: fmt.Sprintf("%s_%d", prefix, ts),
		Email:    fmt.Sprintf("%s_%d@e.com", prefix, ts),
		Password: "x",
	}
	require.NoError(t, testDB.Create(u).Error)
	return u
}

func seedDiary(t *testing.T, owner *models.User) *models.Diary {
	t.Helper()
	d := &models.Diary{UserID: owner.ID, Title: "entry", Content: "words"}
	require.NoError(t, testDB.Create(d).Error)
	return d
}

func TestCollaborationRepository_Integration(t *testing.T) {
	repo := NewCollaborationRepository(testDB)
	ctx := context.Background()

	owner := seedUser(t, "owner")
	editor := seedUser(t, "editor")
	reviewer := seedUser(t, "rev")
	diary := seedDiary(t, owner)

	t.Run("Create and GetByDiaryAndUser", func(t *testing.T) {
		req := &models.CollaborationRequest{
			DiaryID: diary.ID,
			UserID:  editor.ID,
			Status:  models.CollaborationStatusPending,
		}
		require.NoError(t, repo.Create(ctx, req))

		got, err := repo.GetByDiaryAndUser(ctx, diary.ID, editor.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.CollaborationStatusPending, got.Status)
		assert.Nil(t, got.ApprovedByUserID)
	})

	t.Run("Duplicate create reports ErrAlreadyExists", func(t *testing.T) {
		dup := &models.CollaborationRequest{
			DiaryID: diary.ID,
			UserID:  editor.ID,
			Status:  models.CollaborationStatusPending,
		}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("Review stamps status, reviewer and time together", func(t *testing.T) {
		req, err := repo.GetByDiaryAndUser(ctx, diary.ID, editor.ID)
		require.NoError(t, err)

		at := time.Now()
		require.NoError(t, repo.Review(ctx, req.ID, models.CollaborationStatusApproved, reviewer.ID, at))

		got, err := repo.GetByDiaryAndUser(ctx, diary.ID, editor.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CollaborationStatusApproved, got.Status)
		require.NotNil(t, got.ApprovedByUserID)
		assert.Equal(t, reviewer.ID, *got.ApprovedByUserID)
		require.NotNil(t, got.ApprovedAt)
	})

	t.Run("ResetToPending clears the review stamp", func(t *testing.T) {
		req, err := repo.GetByDiaryAndUser(ctx, diary.ID, editor.ID)
		require.NoError(t, err)

		require.NoError(t, repo.ResetToPending(ctx, req.ID))

		got, err := repo.GetByDiaryAndUser(ctx, diary.ID, editor.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CollaborationStatusPending, got.Status)
		assert.Nil(t, got.ApprovedByUserID)
		assert.Nil(t, got.ApprovedAt)
	})

	t.Run("GetByDiaryAndUser returns nil when absent", func(t *testing.T) {
		got, err := repo.GetByDiaryAndUser(ctx, diary.ID, owner.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListForDiaries groups by diary", func(t *testing.T) {
		other := seedDiary(t, owner)
		req := &models.CollaborationRequest{
			DiaryID: other.ID,
			UserID:  reviewer.ID,
			Status:  models.CollaborationStatusPending,
		}
		require.NoError(t, repo.Create(ctx, req))

		grouped, err := repo.ListForDiaries(ctx, []uint{diary.ID, other.ID})
		require.NoError(t, err)
		assert.Len(t, grouped[diary.ID], 1)
		assert.Len(t, grouped[other.ID], 1)
	})

	t.Run("Review of missing row is NotFound", func(t *testing.T) {
		err := repo.Review(ctx, 999999, models.CollaborationStatusApproved, reviewer.ID, time.Now())
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
