package service

import (
	"context"

	"lantern/internal/authz"
	"lantern/internal/models"
	"lantern/internal/repository"
)

// CollectService handles diary bookmarks.
type CollectService struct {
	collectRepo repository.CollectRepository
	diaryRepo   repository.DiaryRepository
}

// NewCollectService returns a new CollectService.
func NewCollectService(collectRepo repository.CollectRepository, diaryRepo repository.DiaryRepository) *CollectService {
	return &CollectService{collectRepo: collectRepo, diaryRepo: diaryRepo}
}

// Collect bookmarks a visible diary for the user. Repeats are idempotent.
func (s *CollectService) Collect(ctx context.Context, user *models.User, diaryID uint) error {
	if user == nil {
		return models.NewUnauthorizedError("Login required")
	}
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return err
	}
	if !authz.CanView(diary, user) {
		return models.NewHiddenError("Diary", diaryID)
	}

	return s.collectRepo.Create(ctx, &models.DiaryCollect{UserID: user.ID, DiaryID: diaryID})
}

// Uncollect removes the bookmark. Removing a non-existent bookmark is a no-op.
func (s *CollectService) Uncollect(ctx context.Context, userID, diaryID uint) error {
	return s.collectRepo.Delete(ctx, userID, diaryID)
}

// ListByUser returns ownerID's bookmarks with diaries the viewer may not see
// filtered out.
func (s *CollectService) ListByUser(ctx context.Context, ownerID uint, viewer *models.User, limit, offset int) ([]models.DiaryCollect, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	collects, err := s.collectRepo.ListByUser(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	visible := collects[:0]
	for _, c := range collects {
		if c.Diary == nil || authz.CanView(c.Diary, viewer) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Status reports whether the user bookmarked the diary and the total count.
func (s *CollectService) Status(ctx context.Context, userID, diaryID uint) (bool, int64, error) {
	collect, err := s.collectRepo.Get(ctx, userID, diaryID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.collectRepo.CountForDiary(ctx, diaryID)
	if err != nil {
		return false, 0, err
	}
	return collect != nil, count, nil
}
