// Package models contains data structures for the application's domain models.
package models

import "time"

// Role defines a user's global trust tier.
type Role string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = "user"
	// RoleAdmin can moderate content and review collaboration requests on unlocked diaries.
	RoleAdmin Role = "admin"
	// RoleMaintainer is the top trust tier and bypasses diary locks.
	RoleMaintainer Role = "maintainer"
)

// UserStatus defines the account state of a user.
type UserStatus string

const (
	// UserStatusActive indicates a usable account.
	UserStatusActive UserStatus = "active"
	// UserStatusBanned indicates an account rejected at authentication.
	UserStatusBanned UserStatus = "banned"
)

// User represents an account on the platform.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:24;unique;not null" json:"username"`
	DisplayName string     `gorm:"size:48" json:"display_name"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Bio         string     `gorm:"type:text" json:"bio"`
	Role        Role       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status      UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	PinnedAt    *time.Time `json:"pinned_at,omitempty"`

	// Upload accounting, enforced by the upload service.
	MaxUploadSizeBytes int64 `gorm:"not null;default:10485760" json:"max_upload_size_bytes"`
	StorageQuotaBytes  int64 `gorm:"not null;default:209715200" json:"storage_quota_bytes"`
	UsedStorageBytes   int64 `gorm:"not null;default:0" json:"used_storage_bytes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// IsBanned reports whether the account is banned.
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// DisplayOrUsername returns the display name, falling back to the username.
func (u *User) DisplayOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
