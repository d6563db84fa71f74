package service

import (
	"context"
	"strings"

	"lantern/internal/authz"
	"lantern/internal/models"
	"lantern/internal/repository"
)

// DiaryView is a diary joined with the viewer's permission projection.
type DiaryView struct {
	Diary       *models.Diary                 `json:"diary"`
	Permissions authz.Permissions             `json:"permissions"`
	Editors     []models.CollaborationRequest `json:"editors"`
	// Pending is nil unless the viewer may see the request queue.
	Pending []models.CollaborationRequest `json:"pending,omitempty"`
}

// DiaryInput carries user-supplied diary fields.
type DiaryInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	CoverImage   string   `json:"cover_image"`
	Images       []string `json:"images"`
	CollectionID *uint    `json:"collection_id"`
}

// DiaryService handles diary lifecycle and visibility.
type DiaryService struct {
	diaryRepo      repository.DiaryRepository
	collabRepo     repository.CollaborationRepository
	collectionRepo repository.CollectionRepository
}

// NewDiaryService returns a new DiaryService.
func NewDiaryService(diaryRepo repository.DiaryRepository, collabRepo repository.CollaborationRepository, collectionRepo repository.CollectionRepository) *DiaryService {
	return &DiaryService{
		diaryRepo:      diaryRepo,
		collabRepo:     collabRepo,
		collectionRepo: collectionRepo,
	}
}

// GetWithPermissions loads a diary for the viewer. A diary the viewer may not
// see is reported as absent rather than forbidden.
func (s *DiaryService) GetWithPermissions(ctx context.Context, diaryID uint, viewer *models.User) (*DiaryView, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(diary, viewer) {
		return nil, models.NewHiddenError("Diary", diaryID)
	}

	roster, err := s.collabRepo.ListForDiary(ctx, diaryID)
	if err != nil {
		return nil, err
	}

	return &DiaryView{
		Diary:       diary,
		Permissions: authz.Project(diary, viewer, roster),
		Editors:     authz.ApprovedEditors(roster),
		Pending:     authz.PendingEditors(diary, viewer, roster),
	}, nil
}

// List returns diaries visible to the viewer, newest first with pinned
// entries leading.
func (s *DiaryService) List(ctx context.Context, viewer *models.User, filter repository.DiaryListFilter) ([]models.Diary, int64, error) {
	if viewer != nil {
		filter.ViewerID = viewer.ID
		// Maintainers see locked diaries everywhere; owners see their own
		// through the ViewerID clause
		filter.IncludeLocked = viewer.Role == models.RoleMaintainer
	}
	return s.diaryRepo.List(ctx, filter)
}

// Create stores a new diary for the owner.
func (s *DiaryService) Create(ctx context.Context, ownerID uint, input DiaryInput) (*models.Diary, error) {
	if err := s.validateInput(ctx, ownerID, &input); err != nil {
		return nil, err
	}

	diary := &models.Diary{
		UserID:       ownerID,
		Title:        strings.TrimSpace(input.Title),
		Content:      input.Content,
		CoverImage:   input.CoverImage,
		Images:       input.Images,
		CollectionID: input.CollectionID,
	}
	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, err
	}
	return s.diaryRepo.GetByID(ctx, diary.ID)
}

// Update applies edits for the editor. Edit rights follow the precedence
// maintainer, then owner, then the lock veto, then admin, then an approved
// collaborator.
func (s *DiaryService) Update(ctx context.Context, diaryID uint, editor *models.User, input DiaryInput) (*models.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(diary, editor) {
		return nil, models.NewHiddenError("Diary", diaryID)
	}

	collab := models.CollaborationStatusNone
	if editor != nil {
		if req, err := s.collabRepo.GetByDiaryAndUser(ctx, diaryID, editor.ID); err != nil {
			return nil, err
		} else if req != nil {
			collab = req.Status
		}
	}
	if !authz.CanEdit(diary, editor, collab) {
		return nil, models.NewForbiddenError("You cannot edit this diary")
	}

	if err := s.validateInput(ctx, diary.UserID, &input); err != nil {
		return nil, err
	}

	diary.Title = strings.TrimSpace(input.Title)
	diary.Content = input.Content
	diary.CoverImage = input.CoverImage
	diary.Images = input.Images
	diary.CollectionID = input.CollectionID
	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return nil, err
	}
	return s.diaryRepo.GetByID(ctx, diaryID)
}

// Delete removes a diary. Collaborators may edit but never delete.
func (s *DiaryService) Delete(ctx context.Context, diaryID uint, actor *models.User) error {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return err
	}
	if !authz.CanView(diary, actor) {
		return models.NewHiddenError("Diary", diaryID)
	}
	caps := authz.CapabilitiesFor(actor, diary)
	if actor == nil || (diary.UserID != actor.ID && !caps.CanEditAny) {
		return models.NewForbiddenError("You cannot delete this diary")
	}
	return s.diaryRepo.Delete(ctx, diaryID)
}

// SetPinned toggles the pinned flag. Only the owner and maintainer may pin.
func (s *DiaryService) SetPinned(ctx context.Context, diaryID uint, actor *models.User, pinned bool) error {
	return s.toggleFlag(ctx, diaryID, actor, func() error {
		return s.diaryRepo.SetPinned(ctx, diaryID, pinned)
	})
}

// SetLocked toggles the lock. Only the owner and maintainer may change it.
func (s *DiaryService) SetLocked(ctx context.Context, diaryID uint, actor *models.User, locked bool) error {
	return s.toggleFlag(ctx, diaryID, actor, func() error {
		return s.diaryRepo.SetLocked(ctx, diaryID, locked)
	})
}

func (s *DiaryService) toggleFlag(ctx context.Context, diaryID uint, actor *models.User, apply func() error) error {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return err
	}
	if !authz.CanView(diary, actor) {
		return models.NewHiddenError("Diary", diaryID)
	}
	if actor == nil || (diary.UserID != actor.ID && actor.Role != models.RoleMaintainer) {
		return models.NewForbiddenError("Only the owner can change this setting")
	}
	return apply()
}

func (s *DiaryService) validateInput(ctx context.Context, ownerID uint, input *DiaryInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(input.Title) > 300 {
		return models.NewValidationError("Title must be at most 300 characters")
	}
	if strings.TrimSpace(input.Content) == "" {
		return models.NewValidationError("Content is required")
	}

	// A diary can only sit in one of its owner's collections
	if input.CollectionID != nil {
		collection, err := s.collectionRepo.GetByID(ctx, *input.CollectionID)
		if err != nil {
			return err
		}
		if collection.UserID != ownerID {
			return models.NewValidationError("Collection belongs to another user")
		}
	}
	return nil
}
