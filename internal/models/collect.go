package models

import "time"

// DiaryCollect is a user's bookmark of a diary, unique per (user, diary) pair.
type DiaryCollect struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_collect_pair" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	DiaryID   uint      `gorm:"not null;uniqueIndex:idx_collect_pair" json:"diary_id"`
	Diary     *Diary    `gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE" json:"diary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (DiaryCollect) TableName() string {
	return "diary_collects"
}
