package seed

import (
	"testing"

	"lantern/internal/database"
	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))
	return db
}

func TestEnsureMaintainer(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	user, err := s.EnsureMaintainer("keeper")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMaintainer, user.Role)

	// Calling again reuses the same account
	again, err := s.EnsureMaintainer("keeper")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureMaintainer_PromotesExistingUser(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	existing := &models.User{
		Username: "keeper",
		Email:    "keeper@example.com",
		Password: "x",
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(existing).Error)

	user, err := s.EnsureMaintainer("keeper")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, models.RoleMaintainer, user.Role)
}

func TestSeedCommunityAndDiaries(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	users, err := s.SeedCommunity(10)
	require.NoError(t, err)
	require.Len(t, users, 10)

	diaries, err := s.SeedDiaries(users, 30)
	require.NoError(t, err)
	require.Len(t, diaries, 30)

	_, err = s.SeedCollaborations(users, diaries)
	require.NoError(t, err)

	// Every filed request belongs to a seeded diary and is not self-filed
	var reqs []models.CollaborationRequest
	require.NoError(t, db.Find(&reqs).Error)
	for _, req := range reqs {
		var diary models.Diary
		require.NoError(t, db.First(&diary, req.DiaryID).Error)
		assert.NotEqual(t, diary.UserID, req.UserID)
		assert.False(t, diary.IsLocked)
	}
}
