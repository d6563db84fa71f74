package repository

import (
	"context"
	"errors"

	"lantern/internal/cache"
	"lantern/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines persistence operations for diary collections.
type CollectionRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.Collection, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository returns a new CollectionRepository implementation.
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

const diaryCountSelect = "collections.*, (SELECT COUNT(*) FROM diaries WHERE diaries.collection_id = collections.id) AS diary_count"

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := readDB(r.db).WithContext(ctx).
		Select(diaryCountSelect).
		First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &collection, nil
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Create(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Save(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCollection(ctx, collection.ID)
	return nil
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	// Diaries keep existing; the FK is set null by the constraint
	if err := r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCollection(ctx, id)
	return nil
}

func (r *collectionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	if err := readDB(r.db).WithContext(ctx).
		Select(diaryCountSelect).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}
