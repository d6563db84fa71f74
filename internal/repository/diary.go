package repository

import (
	"context"
	"errors"

	"lantern/internal/cache"
	"lantern/internal/models"

	"gorm.io/gorm"
)

// DiaryListFilter narrows diary listings.
type DiaryListFilter struct {
	OwnerID      uint
	CollectionID uint
	// IncludeLocked includes locked diaries regardless of the viewer.
	// Callers set it for owners, maintainers and admin moderation views.
	IncludeLocked bool
	// ViewerID additionally includes locked diaries owned by this viewer.
	ViewerID uint
	Limit    int
	Offset   int
}

// DiaryRepository defines persistence operations for diaries.
type DiaryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Diary, error)
	Create(ctx context.Context, diary *models.Diary) error
	Update(ctx context.Context, diary *models.Diary) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter DiaryListFilter) ([]models.Diary, int64, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Diary, error)
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetLocked(ctx context.Context, id uint, locked bool) error
}

type diaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository returns a new DiaryRepository implementation.
func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) GetByID(ctx context.Context, id uint) (*models.Diary, error) {
	var diary models.Diary
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Collection").
		First(&diary, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Diary", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &diary, nil
}

func (r *diaryRepository) Create(ctx context.Context, diary *models.Diary) error {
	if err := r.db.WithContext(ctx).Create(diary).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *diaryRepository) Update(ctx context.Context, diary *models.Diary) error {
	if err := r.db.WithContext(ctx).Save(diary).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDiary(ctx, diary.ID)
	return nil
}

func (r *diaryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Diary{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDiary(ctx, id)
	return nil
}

func (r *diaryRepository) List(ctx context.Context, filter DiaryListFilter) ([]models.Diary, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := readDB(r.db).WithContext(ctx).Model(&models.Diary{})
	if filter.OwnerID != 0 {
		q = q.Where("user_id = ?", filter.OwnerID)
	}
	if filter.CollectionID != 0 {
		q = q.Where("collection_id = ?", filter.CollectionID)
	}
	if !filter.IncludeLocked {
		if filter.ViewerID != 0 {
			q = q.Where("is_locked = ? OR user_id = ?", false, filter.ViewerID)
		} else {
			q = q.Where("is_locked = ?", false)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var diaries []models.Diary
	if err := q.Preload("User").
		Order("is_pinned DESC").
		Order("created_at DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&diaries).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return diaries, total, nil
}

func (r *diaryRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Diary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var diaries []models.Diary
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Find(&diaries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return diaries, nil
}

func (r *diaryRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

func (r *diaryRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	return r.setFlag(ctx, id, "is_locked", locked)
}

func (r *diaryRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Diary{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Diary", id)
	}
	cache.InvalidateDiary(ctx, id)
	return nil
}
