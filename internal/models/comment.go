package models

import "time"

// Comment represents a comment left on a diary, optionally replying to
// another comment on the same diary.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DiaryID   uint      `gorm:"not null;index" json:"diary_id"`
	Diary     *Diary    `gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ReplyTo   *uint     `json:"reply_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
