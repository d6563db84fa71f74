package repository

import (
	"context"
	"testing"

	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiaryRepository_Integration(t *testing.T) {
	repo := NewDiaryRepository(testDB)
	ctx := context.Background()

	owner := seedUser(t, "downer")
	stranger := seedUser(t, "dstr")

	open := seedDiary(t, owner)
	locked := &models.Diary{UserID: owner.ID, Title: "hidden", Content: "words", IsLocked: true}
	require.NoError(t, testDB.Create(locked).Error)

	t.Run("List excludes locked diaries by default", func(t *testing.T) {
		diaries, _, err := repo.List(ctx, DiaryListFilter{OwnerID: owner.ID})
		require.NoError(t, err)
		for _, d := range diaries {
			assert.False(t, d.IsLocked)
		}
	})

	t.Run("List includes own locked diaries for the viewer", func(t *testing.T) {
		diaries, _, err := repo.List(ctx, DiaryListFilter{OwnerID: owner.ID, ViewerID: owner.ID})
		require.NoError(t, err)
		ids := make(map[uint]bool)
		for _, d := range diaries {
			ids[d.ID] = true
		}
		assert.True(t, ids[open.ID])
		assert.True(t, ids[locked.ID])
	})

	t.Run("List hides locked diaries from other viewers", func(t *testing.T) {
		diaries, _, err := repo.List(ctx, DiaryListFilter{OwnerID: owner.ID, ViewerID: stranger.ID})
		require.NoError(t, err)
		for _, d := range diaries {
			assert.NotEqual(t, locked.ID, d.ID)
		}
	})

	t.Run("SetLocked flips the flag", func(t *testing.T) {
		require.NoError(t, repo.SetLocked(ctx, open.ID, true))
		got, err := repo.GetByID(ctx, open.ID)
		require.NoError(t, err)
		assert.True(t, got.IsLocked)
		require.NoError(t, repo.SetLocked(ctx, open.ID, false))
	})

	t.Run("SetPinned on missing diary is NotFound", func(t *testing.T) {
		err := repo.SetPinned(ctx, 999999, true)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
