package service

import (
	"context"
	"fmt"
	"strings"

	"lantern/internal/authz"
	"lantern/internal/models"
	"lantern/internal/repository"
)

// CommentService handles comments on diaries.
type CommentService struct {
	commentRepo repository.CommentRepository
	diaryRepo   repository.DiaryRepository
	notifier    Notifier
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, diaryRepo repository.DiaryRepository, notifier Notifier) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		diaryRepo:   diaryRepo,
		notifier:    notifier,
	}
}

// Create adds a comment to a visible diary. A reply must reference a comment
// on the same diary.
func (s *CommentService) Create(ctx context.Context, diaryID uint, author *models.User, content string, replyTo *uint) (*models.Comment, error) {
	if author == nil {
		return nil, models.NewUnauthorizedError("Login required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > 2000 {
		return nil, models.NewValidationError("Comment must be at most 2000 characters")
	}

	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(diary, author) {
		return nil, models.NewHiddenError("Diary", diaryID)
	}

	var parent *models.Comment
	if replyTo != nil {
		parent, err = s.commentRepo.GetByID(ctx, *replyTo)
		if err != nil {
			return nil, err
		}
		if parent.DiaryID != diaryID {
			return nil, models.NewValidationError("Reply must target a comment on the same diary")
		}
	}

	comment := &models.Comment{
		DiaryID: diaryID,
		UserID:  author.ID,
		Content: content,
		ReplyTo: replyTo,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyComment(ctx, diary, author, parent)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// List returns a visible diary's comments, oldest first.
func (s *CommentService) List(ctx context.Context, diaryID uint, viewer *models.User, limit, offset int) ([]models.Comment, int64, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanView(diary, viewer) {
		return nil, 0, models.NewHiddenError("Diary", diaryID)
	}
	return s.commentRepo.ListForDiary(ctx, diaryID, limit, offset)
}

// Delete removes a comment. The author, the diary owner and staff with edit
// rights on the diary may delete.
func (s *CommentService) Delete(ctx context.Context, commentID uint, actor *models.User) error {
	if actor == nil {
		return models.NewUnauthorizedError("Login required")
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	diary, err := s.diaryRepo.GetByID(ctx, comment.DiaryID)
	if err != nil {
		return err
	}

	caps := authz.CapabilitiesFor(actor, diary)
	if comment.UserID != actor.ID && !caps.CanEditAny {
		return models.NewForbiddenError("You cannot delete this comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) notifyComment(ctx context.Context, diary *models.Diary, author *models.User, parent *models.Comment) {
	if s.notifier == nil {
		return
	}
	link := diaryLink(diary.ID)

	if parent != nil && parent.UserID != author.ID {
		content := fmt.Sprintf("%s replied to your comment on \"%s\"", author.DisplayOrUsername(), diary.Title)
		s.notifier.Notify(ctx, parent.UserID, models.NotificationTypeReply, content, link)
	}
	// The owner hears about every comment except their own, and is not
	// notified twice when the reply already targets them
	if diary.UserID != author.ID && (parent == nil || parent.UserID != diary.UserID) {
		content := fmt.Sprintf("%s commented on \"%s\"", author.DisplayOrUsername(), diary.Title)
		s.notifier.Notify(ctx, diary.UserID, models.NotificationTypeComment, content, link)
	}
}
