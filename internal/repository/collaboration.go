package repository

import (
	"context"
	"errors"
	"time"

	"lantern/internal/models"

	"gorm.io/gorm"
)

// CollaborationRepository defines persistence operations for collaboration
// requests. Requests are never deleted; every transition mutates the single
// row for the (diary, user) pair.
type CollaborationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.CollaborationRequest, error)
	// GetByDiaryAndUser returns (nil, nil) when no request row exists.
	GetByDiaryAndUser(ctx context.Context, diaryID, userID uint) (*models.CollaborationRequest, error)
	ListForDiary(ctx context.Context, diaryID uint) ([]models.CollaborationRequest, error)
	ListForDiaries(ctx context.Context, diaryIDs []uint) (map[uint][]models.CollaborationRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CollaborationRequest, error)
	// Create inserts a new pending request. A concurrent insert of the same
	// pair is reported as ErrAlreadyExists so callers can treat it as
	// idempotent success.
	Create(ctx context.Context, req *models.CollaborationRequest) error
	// ResetToPending returns a settled request to the pending state, clearing
	// the review stamp.
	ResetToPending(ctx context.Context, id uint) error
	// Review stamps the decision in a single update. Concurrent reviews are
	// last-write-wins; the row never holds fields from two decisions.
	Review(ctx context.Context, id uint, status models.CollaborationStatus, reviewerID uint, at time.Time) error
}

type collaborationRepository struct {
	db *gorm.DB
}

// NewCollaborationRepository returns a new CollaborationRepository implementation.
func NewCollaborationRepository(db *gorm.DB) CollaborationRepository {
	return &collaborationRepository{db: db}
}

func (r *collaborationRepository) GetByID(ctx context.Context, id uint) (*models.CollaborationRequest, error) {
	var req models.CollaborationRequest
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collaboration request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *collaborationRepository) GetByDiaryAndUser(ctx context.Context, diaryID, userID uint) (*models.CollaborationRequest, error) {
	var req models.CollaborationRequest
	if err := readDB(r.db).WithContext(ctx).
		Where("diary_id = ? AND user_id = ?", diaryID, userID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *collaborationRepository) ListForDiary(ctx context.Context, diaryID uint) ([]models.CollaborationRequest, error) {
	var reqs []models.CollaborationRequest
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("diary_id = ?", diaryID).
		Order("requested_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *collaborationRepository) ListForDiaries(ctx context.Context, diaryIDs []uint) (map[uint][]models.CollaborationRequest, error) {
	out := make(map[uint][]models.CollaborationRequest, len(diaryIDs))
	if len(diaryIDs) == 0 {
		return out, nil
	}
	var reqs []models.CollaborationRequest
	if err := readDB(r.db).WithContext(ctx).
		Where("diary_id IN ?", diaryIDs).
		Order("requested_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, req := range reqs {
		out[req.DiaryID] = append(out[req.DiaryID], req)
	}
	return out, nil
}

func (r *collaborationRepository) ListByUser(ctx context.Context, userID uint) ([]models.CollaborationRequest, error) {
	var reqs []models.CollaborationRequest
	if err := readDB(r.db).WithContext(ctx).
		Preload("Diary").
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *collaborationRepository) Create(ctx context.Context, req *models.CollaborationRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collaborationRepository) ResetToPending(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.CollaborationRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.CollaborationStatusPending,
			"approved_by":  nil,
			"approved_at":  nil,
			"requested_at": time.Now(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Collaboration request", id)
	}
	return nil
}

func (r *collaborationRepository) Review(ctx context.Context, id uint, status models.CollaborationStatus, reviewerID uint, at time.Time) error {
	// One UPDATE so all three columns come from the same decision
	res := r.db.WithContext(ctx).
		Model(&models.CollaborationRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": reviewerID,
			"approved_at": at,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Collaboration request", id)
	}
	return nil
}
