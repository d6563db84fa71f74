package repository

import (
	"context"

	"lantern/internal/cache"
	"lantern/internal/models"

	"gorm.io/gorm"
)

// UploadRepository defines persistence operations for upload accounting.
type UploadRepository interface {
	// Record stores the upload and adds its size to the owner's usage in one
	// transaction.
	Record(ctx context.Context, upload *models.UserUpload) error
	ListByUser(ctx context.Context, userID uint) ([]models.UserUpload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository returns a new UploadRepository implementation.
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Record(ctx context.Context, upload *models.UserUpload) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(upload).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", upload.UserID).
			Update("used_storage_bytes", gorm.Expr("used_storage_bytes + ?", upload.SizeBytes)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, upload.UserID)
	return nil
}

func (r *uploadRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserUpload, error) {
	var uploads []models.UserUpload
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return uploads, nil
}
