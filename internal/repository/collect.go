package repository

import (
	"context"
	"errors"

	"lantern/internal/models"

	"gorm.io/gorm"
)

// CollectRepository defines persistence operations for diary bookmarks.
type CollectRepository interface {
	// Get returns (nil, nil) when the pair does not exist.
	Get(ctx context.Context, userID, diaryID uint) (*models.DiaryCollect, error)
	Create(ctx context.Context, collect *models.DiaryCollect) error
	Delete(ctx context.Context, userID, diaryID uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.DiaryCollect, error)
	CountForDiary(ctx context.Context, diaryID uint) (int64, error)
}

type collectRepository struct {
	db *gorm.DB
}

// NewCollectRepository returns a new CollectRepository implementation.
func NewCollectRepository(db *gorm.DB) CollectRepository {
	return &collectRepository{db: db}
}

func (r *collectRepository) Get(ctx context.Context, userID, diaryID uint) (*models.DiaryCollect, error) {
	var collect models.DiaryCollect
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND diary_id = ?", userID, diaryID).
		First(&collect).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &collect, nil
}

func (r *collectRepository) Create(ctx context.Context, collect *models.DiaryCollect) error {
	if err := r.db.WithContext(ctx).Create(collect).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Already bookmarked, idempotent
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectRepository) Delete(ctx context.Context, userID, diaryID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND diary_id = ?", userID, diaryID).
		Delete(&models.DiaryCollect{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.DiaryCollect, error) {
	var collects []models.DiaryCollect
	if err := readDB(r.db).WithContext(ctx).
		Preload("Diary").
		Preload("Diary.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&collects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return collects, nil
}

func (r *collectRepository) CountForDiary(ctx context.Context, diaryID uint) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.DiaryCollect{}).
		Where("diary_id = ?", diaryID).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
