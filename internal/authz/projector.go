package authz

import "lantern/internal/models"

// Collaboration labels beyond the raw request states.
const (
	// CollabLabelOwner marks the diary's owner.
	CollabLabelOwner = "owner"
	// CollabLabelStaff marks a maintainer, or an admin on an unlocked diary.
	CollabLabelStaff = "staff"
	// CollabLabelNone marks a viewer with no relationship to the diary.
	CollabLabelNone = "none"
)

// Permissions is the per-viewer, per-diary summary returned to API consumers.
type Permissions struct {
	CanEdit      bool   `json:"canEdit"`
	IsOwner      bool   `json:"isOwner"`
	IsMaintainer bool   `json:"isMaintainer"`
	IsAdmin      bool   `json:"isAdmin"`
	// CollaborationStatus is owner, staff, a request state, or none,
	// chosen by the same precedence that governs CanEdit.
	CollaborationStatus string `json:"collaborationStatus"`
}

// Project combines the visibility and edit policies with the viewer's own
// collaboration state into a permission summary. roster is the diary's full
// editor roster; only the viewer's entry is consulted here.
func Project(diary *models.Diary, viewer *models.User, roster []models.CollaborationRequest) Permissions {
	p := Permissions{CollaborationStatus: CollabLabelNone}
	if viewer == nil {
		return p
	}

	p.IsOwner = viewer.ID == diary.UserID
	p.IsMaintainer = viewer.Role == models.RoleMaintainer
	p.IsAdmin = viewer.Role == models.RoleAdmin

	own := models.CollaborationStatusNone
	for i := range roster {
		if roster[i].UserID == viewer.ID {
			own = roster[i].Status
			break
		}
	}

	p.CanEdit = CanEdit(diary, viewer, own)

	switch {
	case p.IsOwner:
		p.CollaborationStatus = CollabLabelOwner
	case p.IsMaintainer:
		p.CollaborationStatus = CollabLabelStaff
	case p.IsAdmin && !diary.IsLocked:
		p.CollaborationStatus = CollabLabelStaff
	case own != models.CollaborationStatusNone:
		p.CollaborationStatus = string(own)
	}

	return p
}

// ApprovedEditors filters the roster down to approved collaborators. This
// subset is public alongside the diary.
func ApprovedEditors(roster []models.CollaborationRequest) []models.CollaborationRequest {
	var approved []models.CollaborationRequest
	for _, r := range roster {
		if r.Status == models.CollaborationStatusApproved {
			approved = append(approved, r)
		}
	}
	return approved
}

// PendingEditors returns the roster subset awaiting review, but only for
// viewers with reviewer standing (owner, admin or maintainer). All other
// viewers, including the pending requesters themselves, get nil: a requester
// learns their own state through Permissions.CollaborationStatus only.
func PendingEditors(diary *models.Diary, viewer *models.User, roster []models.CollaborationRequest) []models.CollaborationRequest {
	if viewer == nil {
		return nil
	}
	if viewer.ID != diary.UserID &&
		viewer.Role != models.RoleAdmin && viewer.Role != models.RoleMaintainer {
		return nil
	}
	var pending []models.CollaborationRequest
	for _, r := range roster {
		if r.Status == models.CollaborationStatusPending {
			pending = append(pending, r)
		}
	}
	return pending
}
