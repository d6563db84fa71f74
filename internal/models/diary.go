package models

import "time"

// Diary represents a single diary entry owned by exactly one user.
type Diary struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       *User    `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Title      string   `gorm:"size:300;not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	CoverImage string   `json:"cover_image"`
	Images     []string `gorm:"serializer:json" json:"images"`
	IsPinned   bool     `gorm:"not null;default:false" json:"is_pinned"`
	// IsLocked narrows both visibility and edit rights to the owner and
	// maintainer tier. It also blocks admins from reviewing collaboration.
	IsLocked     bool        `gorm:"not null;default:false" json:"is_locked"`
	CollectionID *uint       `gorm:"index" json:"collection_id,omitempty"`
	Collection   *Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:SET NULL" json:"collection,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Diary) TableName() string {
	return "diaries"
}
