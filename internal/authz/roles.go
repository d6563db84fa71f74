// Package authz centralizes diary access-control decisions: who may view a
// diary, who may edit it, and who has standing to review collaboration
// requests. Handlers and services consult this package instead of branching
// on raw role strings.
package authz

import "lantern/internal/models"

// Rank returns the trust ranking of a role: maintainer > admin > user.
func Rank(role models.Role) int {
	switch role {
	case models.RoleMaintainer:
		return 2
	case models.RoleAdmin:
		return 1
	default:
		return 0
	}
}

// Capabilities is a viewer's capability set for one diary, evaluated once
// from role, ownership and lock state.
type Capabilities struct {
	// CanViewLocked grants visibility of the diary even when it is locked.
	CanViewLocked bool
	// CanEditAny grants edit rights regardless of collaboration state.
	CanEditAny bool
	// CanReviewAny grants standing to approve, reject or revoke
	// collaboration requests on the diary.
	CanReviewAny bool
}

// CapabilitiesFor evaluates the viewer against the diary. A nil viewer
// (anonymous) holds no capabilities.
//
// A lock suppresses the admin tier entirely: locked diaries are visible,
// editable and reviewable only by the owner and maintainers.
func CapabilitiesFor(viewer *models.User, diary *models.Diary) Capabilities {
	if viewer == nil {
		return Capabilities{}
	}

	isOwner := viewer.ID == diary.UserID
	isMaintainer := viewer.Role == models.RoleMaintainer
	isAdmin := viewer.Role == models.RoleAdmin

	return Capabilities{
		CanViewLocked: isOwner || isMaintainer,
		CanEditAny:    isOwner || isMaintainer || (isAdmin && !diary.IsLocked),
		CanReviewAny:  isOwner || isMaintainer || (isAdmin && !diary.IsLocked),
	}
}
