package authz

import "lantern/internal/models"

// CanView decides whether the viewer may see the diary at all. Unlocked
// diaries are visible to everyone including anonymous viewers; locked diaries
// only to the owner and maintainers. Admin alone does not bypass a lock.
func CanView(diary *models.Diary, viewer *models.User) bool {
	if !diary.IsLocked {
		return true
	}
	return CapabilitiesFor(viewer, diary).CanViewLocked
}

// CanEdit decides whether the viewer may mutate the diary's content, given
// the viewer's collaboration state for this diary (CollaborationStatusNone
// when no request row exists). Anonymous viewers can never edit.
//
// Precedence: maintainer > owner > lock-veto > admin > approved collaborator.
func CanEdit(diary *models.Diary, viewer *models.User, collab models.CollaborationStatus) bool {
	if viewer == nil {
		return false
	}
	caps := CapabilitiesFor(viewer, diary)
	if caps.CanEditAny {
		return true
	}
	if diary.IsLocked {
		return false
	}
	return collab == models.CollaborationStatusApproved
}

// CanReview decides whether the reviewer has standing to approve, reject or
// revoke collaboration requests on the diary.
func CanReview(diary *models.Diary, reviewer *models.User) bool {
	return CapabilitiesFor(reviewer, diary).CanReviewAny
}

// CanRequestCollaboration decides whether the user may file (or re-file) a
// collaboration request for the diary. Owners have nothing to request, and a
// locked diary accepts requests from maintainers only.
func CanRequestCollaboration(diary *models.Diary, requester *models.User) bool {
	if requester == nil || requester.ID == diary.UserID {
		return false
	}
	if diary.IsLocked && requester.Role != models.RoleMaintainer {
		return false
	}
	return true
}
