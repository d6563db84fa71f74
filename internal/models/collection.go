package models

import "time"

// Collection groups diaries under a titled series.
type Collection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverImage  string `json:"cover_image"`
	// DiaryCount is not persisted; computed at query time
	DiaryCount int       `gorm:"->" json:"diary_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Collection) TableName() string {
	return "collections"
}
