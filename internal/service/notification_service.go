package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"lantern/internal/middleware"
	"lantern/internal/models"
	"lantern/internal/notifications"
	"lantern/internal/repository"
)

// NotificationService persists notifications and pushes them to live sockets
// through the Redis-backed notifier.
type NotificationService struct {
	repo     repository.NotificationRepository
	notifier *notifications.Notifier
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, notifier *notifications.Notifier) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier}
}

// Notify stores the notification and publishes it. Delivery problems are
// logged rather than surfaced; notification failure never fails the action
// that produced it.
func (s *NotificationService) Notify(ctx context.Context, userID uint, typ models.NotificationType, content, link string) {
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Content: content,
		Link:    link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to store notification",
			slog.Any("recipient", userID),
			slog.String("type", string(typ)),
			slog.String("error", err.Error()),
		)
		return
	}

	if s.notifier == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":    "notification",
		"payload": n,
	})
	if err != nil {
		return
	}
	if err := s.notifier.PublishUser(ctx, userID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.Any("recipient", userID),
			slog.String("error", err.Error()),
		)
	}
}

// List returns a user's notifications with the unread count.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, int64, error) {
	ns, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return ns, total, unread, nil
}

// MarkRead marks the given notifications read for the user.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	return s.repo.MarkRead(ctx, userID, ids)
}

// MarkAllRead marks every notification read for the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}
