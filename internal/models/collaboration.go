package models

import "time"

// CollaborationStatus defines lifecycle states for a diary collaboration request.
type CollaborationStatus string

const (
	// CollaborationStatusNone is the implicit state when no request row exists.
	CollaborationStatusNone CollaborationStatus = "none"
	// CollaborationStatusPending indicates the request is awaiting review.
	CollaborationStatusPending CollaborationStatus = "pending"
	// CollaborationStatusApproved indicates the requester may edit the diary.
	CollaborationStatusApproved CollaborationStatus = "approved"
	// CollaborationStatusRejected indicates the request was declined.
	CollaborationStatusRejected CollaborationStatus = "rejected"
	// CollaborationStatusRevoked indicates previously granted edit rights were removed.
	CollaborationStatusRevoked CollaborationStatus = "revoked"
)

// Valid reports whether s is a persistable request state. The implicit
// "none" state is never stored.
func (s CollaborationStatus) Valid() bool {
	switch s {
	case CollaborationStatusPending, CollaborationStatusApproved,
		CollaborationStatusRejected, CollaborationStatusRevoked:
		return true
	}
	return false
}

// ReviewAction is a reviewer decision on a collaboration request.
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
	ReviewActionRevoke  ReviewAction = "revoke"
)

// Status returns the request state the action transitions to.
func (a ReviewAction) Status() (CollaborationStatus, bool) {
	switch a {
	case ReviewActionApprove:
		return CollaborationStatusApproved, true
	case ReviewActionReject:
		return CollaborationStatusRejected, true
	case ReviewActionRevoke:
		return CollaborationStatusRevoked, true
	}
	return "", false
}

// CollaborationRequest tracks a non-owner's bid to co-edit a diary. There is
// at most one row per (diary, user) pair; transitions mutate the row in place
// and never delete it.
//
// ApprovedByUserID and ApprovedAt are stamped by every review outcome, not
// just approval; the names are historical.
type CollaborationRequest struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	DiaryID          uint                `gorm:"not null;uniqueIndex:idx_diary_editor" json:"diary_id"`
	Diary            *Diary              `gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE" json:"diary,omitempty"`
	UserID           uint                `gorm:"not null;uniqueIndex:idx_diary_editor" json:"user_id"`
	User             *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status           CollaborationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedByUserID *uint               `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedBy       *User               `gorm:"foreignKey:ApprovedByUserID" json:"-"`
	ApprovedAt       *time.Time          `json:"approved_at,omitempty"`
	RequestedAt      time.Time           `gorm:"autoCreateTime" json:"requested_at"`
}

// TableName specifies the table name for GORM.
func (CollaborationRequest) TableName() string {
	return "diary_editors"
}
