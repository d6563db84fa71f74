package models

import "time"

// UserUpload records a stored file for per-user storage accounting.
type UserUpload struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Path      string    `gorm:"not null" json:"path"`
	SizeBytes int64     `gorm:"not null" json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (UserUpload) TableName() string {
	return "user_uploads"
}
