package models

import "time"

// NotificationType labels the event that produced a notification.
type NotificationType string

const (
	NotificationTypeComment       NotificationType = "comment"
	NotificationTypeReply         NotificationType = "reply"
	NotificationTypeFollow        NotificationType = "follow"
	NotificationTypeCollabRequest NotificationType = "collaborator_request"
	NotificationTypeCollabApprove NotificationType = "collaborator_approve"
	NotificationTypeCollabReject  NotificationType = "collaborator_reject"
	NotificationTypeCollabRevoke  NotificationType = "collaborator_revoke"
)

// Notification is a persisted inbox entry for a user.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	User      *User            `gorm:"foreignKey:UserID" json:"-"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Link      string           `json:"link"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
