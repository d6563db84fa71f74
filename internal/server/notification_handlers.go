package server

import (
	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
)

// NotificationListResponse is the paginated notification payload.
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
}

// GetNotifications handles GET /api/notifications
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Unread only"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} NotificationListResponse
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	unreadOnly := c.QueryBool("unread", false)

	notifications, total, unread, err := s.notificationService.List(c.Context(), user.ID, unreadOnly, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	})
}

// GetUnreadCount handles GET /api/notifications/unread-count
// @Summary Get my unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	_, _, unread, err := s.notificationService.List(c.Context(), user.ID, true, 1, 0)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread": unread})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /notifications/{id}/read [put]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.Context(), user.ID, []uint{notificationID}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
// @Summary Mark all my notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /notifications/read-all [put]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkAllRead(c.Context(), user.ID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked read"})
}
