// Package service implements business logic on top of the repository layer.
package service

import (
	"context"
	"fmt"
	"time"

	"lantern/internal/authz"
	"lantern/internal/middleware"
	"lantern/internal/models"
	"lantern/internal/repository"
)

// Notifier delivers a notification to a user's inbox and any live sockets.
type Notifier interface {
	Notify(ctx context.Context, userID uint, typ models.NotificationType, content, link string)
}

// CollabService handles the collaboration request workflow on diaries.
type CollabService struct {
	collabRepo repository.CollaborationRepository
	diaryRepo  repository.DiaryRepository
	userRepo   repository.UserRepository
	notifier   Notifier
}

// NewCollabService returns a new CollabService.
func NewCollabService(collabRepo repository.CollaborationRepository, diaryRepo repository.DiaryRepository, userRepo repository.UserRepository, notifier Notifier) *CollabService {
	return &CollabService{
		collabRepo: collabRepo,
		diaryRepo:  diaryRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// Request files a collaboration request by requesterID on the diary. Repeat
// requests are idempotent: a pending or approved row is returned unchanged,
// while a rejected or revoked row is returned to pending with its review
// stamp cleared.
func (s *CollabService) Request(ctx context.Context, diaryID, requesterID uint) (*models.CollaborationRequest, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if diary.UserID == requesterID {
		return nil, models.NewForbiddenError("You cannot request collaboration on your own diary")
	}
	if !authz.CanRequestCollaboration(diary, requester) {
		return nil, models.NewForbiddenError("This diary is locked and is not accepting collaboration requests")
	}

	existing, err := s.collabRepo.GetByDiaryAndUser(ctx, diaryID, requesterID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case models.CollaborationStatusPending, models.CollaborationStatusApproved:
			return existing, nil
		case models.CollaborationStatusRejected, models.CollaborationStatusRevoked:
			if err := s.collabRepo.ResetToPending(ctx, existing.ID); err != nil {
				return nil, err
			}
			s.notifyOwner(ctx, diary, requester)
			return s.collabRepo.GetByDiaryAndUser(ctx, diaryID, requesterID)
		}
	}

	req := &models.CollaborationRequest{
		DiaryID: diaryID,
		UserID:  requesterID,
		Status:  models.CollaborationStatusPending,
	}
	if err := s.collabRepo.Create(ctx, req); err != nil {
		if err == repository.ErrAlreadyExists {
			// Lost a race with an identical request, treat as success
			return s.collabRepo.GetByDiaryAndUser(ctx, diaryID, requesterID)
		}
		return nil, err
	}

	s.notifyOwner(ctx, diary, requester)
	return req, nil
}

// Review applies a reviewer's decision to a request. Decisions apply from any
// current state, so a reviewer may reject a previously approved collaborator
// or approve a rejected request again. The decision is written in a single
// update so concurrent reviews settle last-write-wins without mixing fields
// from two decisions.
func (s *CollabService) Review(ctx context.Context, requestID, reviewerID uint, action models.ReviewAction) (*models.CollaborationRequest, error) {
	status, ok := action.Status()
	if !ok {
		return nil, models.NewValidationError("Unknown review action")
	}

	req, err := s.collabRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	diary, err := s.diaryRepo.GetByID(ctx, req.DiaryID)
	if err != nil {
		return nil, err
	}
	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReview(diary, reviewer) {
		return nil, models.NewForbiddenError("You cannot review collaboration for this diary")
	}

	if err := s.collabRepo.Review(ctx, requestID, status, reviewerID, time.Now()); err != nil {
		return nil, err
	}
	middleware.CollaborationReviews.WithLabelValues(string(action)).Inc()

	s.notifyRequester(ctx, diary, req.UserID, status)
	return s.collabRepo.GetByID(ctx, requestID)
}

// ReviewByDiaryAndUser resolves the request addressed by diary and requester
// and applies the reviewer's decision to it.
func (s *CollabService) ReviewByDiaryAndUser(ctx context.Context, diaryID, targetUserID, reviewerID uint, action models.ReviewAction) (*models.CollaborationRequest, error) {
	req, err := s.collabRepo.GetByDiaryAndUser(ctx, diaryID, targetUserID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, models.NewNotFoundError("Collaboration request", targetUserID)
	}
	return s.Review(ctx, req.ID, reviewerID, action)
}

// Roster returns the diary's permission projection for the viewer along with
// the approved editors, and the pending requests when the viewer may review.
func (s *CollabService) Roster(ctx context.Context, diaryID uint, viewer *models.User) (authz.Permissions, []models.CollaborationRequest, []models.CollaborationRequest, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return authz.Permissions{}, nil, nil, err
	}
	if !authz.CanView(diary, viewer) {
		return authz.Permissions{}, nil, nil, models.NewHiddenError("Diary", diaryID)
	}

	roster, err := s.collabRepo.ListForDiary(ctx, diaryID)
	if err != nil {
		return authz.Permissions{}, nil, nil, err
	}

	perms := authz.Project(diary, viewer, roster)
	approved := authz.ApprovedEditors(roster)
	pending := authz.PendingEditors(diary, viewer, roster)
	return perms, approved, pending, nil
}

// RequestsByUser returns the user's own collaboration requests across diaries.
func (s *CollabService) RequestsByUser(ctx context.Context, userID uint) ([]models.CollaborationRequest, error) {
	return s.collabRepo.ListByUser(ctx, userID)
}

func (s *CollabService) notifyOwner(ctx context.Context, diary *models.Diary, requester *models.User) {
	if s.notifier == nil {
		return
	}
	content := fmt.Sprintf("%s requested to collaborate on \"%s\"", requester.DisplayOrUsername(), diary.Title)
	s.notifier.Notify(ctx, diary.UserID, models.NotificationTypeCollabRequest, content, diaryLink(diary.ID))
}

func (s *CollabService) notifyRequester(ctx context.Context, diary *models.Diary, requesterID uint, status models.CollaborationStatus) {
	if s.notifier == nil {
		return
	}
	var typ models.NotificationType
	var verb string
	switch status {
	case models.CollaborationStatusApproved:
		typ, verb = models.NotificationTypeCollabApprove, "approved"
	case models.CollaborationStatusRejected:
		typ, verb = models.NotificationTypeCollabReject, "rejected"
	case models.CollaborationStatusRevoked:
		typ, verb = models.NotificationTypeCollabRevoke, "revoked"
	default:
		return
	}
	content := fmt.Sprintf("Your collaboration on \"%s\" was %s", diary.Title, verb)
	s.notifier.Notify(ctx, requesterID, typ, content, diaryLink(diary.ID))
}

func diaryLink(id uint) string {
	return fmt.Sprintf("/diaries/%d", id)
}
