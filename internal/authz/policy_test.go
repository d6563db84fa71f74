package authz

import (
	"testing"

	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
)

func user(id uint, role models.Role) *models.User {
	return &models.User{ID: id, Role: role}
}

func diary(ownerID uint, locked bool) *models.Diary {
	return &models.Diary{ID: 1, UserID: ownerID, IsLocked: locked}
}

func TestRank(t *testing.T) {
	t.Parallel()

	assert.Greater(t, Rank(models.RoleMaintainer), Rank(models.RoleAdmin))
	assert.Greater(t, Rank(models.RoleAdmin), Rank(models.RoleUser))
	assert.Equal(t, Rank(models.RoleUser), Rank(models.Role("unknown")))
}

func TestCanView_Unlocked(t *testing.T) {
	t.Parallel()

	d := diary(1, false)

	assert.True(t, CanView(d, nil), "anonymous")
	assert.True(t, CanView(d, user(1, models.RoleUser)), "owner")
	assert.True(t, CanView(d, user(2, models.RoleUser)), "stranger")
	assert.True(t, CanView(d, user(3, models.RoleAdmin)), "admin")
	assert.True(t, CanView(d, user(4, models.RoleMaintainer)), "maintainer")
}

func TestCanView_Locked(t *testing.T) {
	t.Parallel()

	d := diary(1, true)

	assert.False(t, CanView(d, nil), "anonymous")
	assert.True(t, CanView(d, user(1, models.RoleUser)), "owner")
	assert.False(t, CanView(d, user(2, models.RoleUser)), "stranger")
	assert.False(t, CanView(d, user(3, models.RoleAdmin)), "admin does not bypass a lock")
	assert.True(t, CanView(d, user(4, models.RoleMaintainer)), "maintainer")
}

func TestCanEdit_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		diary  *models.Diary
		viewer *models.User
		collab models.CollaborationStatus
		want   bool
	}{
		{"anonymous never edits", diary(1, false), nil, models.CollaborationStatusNone, false},
		{"owner edits unlocked", diary(1, false), user(1, models.RoleUser), models.CollaborationStatusNone, true},
		{"owner edits own locked diary", diary(1, true), user(1, models.RoleUser), models.CollaborationStatusNone, true},
		{"maintainer overrides lock", diary(1, true), user(4, models.RoleMaintainer), models.CollaborationStatusNone, true},
		{"admin edits unlocked", diary(1, false), user(3, models.RoleAdmin), models.CollaborationStatusNone, true},
		{"admin blocked by lock", diary(1, true), user(3, models.RoleAdmin), models.CollaborationStatusNone, false},
		{"approved collaborator edits unlocked", diary(1, false), user(2, models.RoleUser), models.CollaborationStatusApproved, true},
		{"approved collaborator blocked by lock", diary(1, true), user(2, models.RoleUser), models.CollaborationStatusApproved, false},
		{"pending request grants nothing", diary(1, false), user(2, models.RoleUser), models.CollaborationStatusPending, false},
		{"rejected request grants nothing", diary(1, false), user(2, models.RoleUser), models.CollaborationStatusRejected, false},
		{"revoked request grants nothing", diary(1, false), user(2, models.RoleUser), models.CollaborationStatusRevoked, false},
		{"stranger with no row", diary(1, false), user(2, models.RoleUser), models.CollaborationStatusNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.diary, tt.viewer, tt.collab))
		})
	}
}

func TestCanReview(t *testing.T) {
	t.Parallel()

	unlocked := diary(1, false)
	locked := diary(1, true)

	assert.False(t, CanReview(unlocked, nil))
	assert.True(t, CanReview(unlocked, user(1, models.RoleUser)), "owner")
	assert.True(t, CanReview(unlocked, user(3, models.RoleAdmin)), "admin on unlocked")
	assert.True(t, CanReview(unlocked, user(4, models.RoleMaintainer)))
	assert.False(t, CanReview(unlocked, user(2, models.RoleUser)), "stranger")

	// The lock excludes admins from reviewing, mirroring visibility.
	assert.True(t, CanReview(locked, user(1, models.RoleUser)), "owner")
	assert.False(t, CanReview(locked, user(3, models.RoleAdmin)), "admin once locked")
	assert.True(t, CanReview(locked, user(4, models.RoleMaintainer)))
}

func TestCanRequestCollaboration(t *testing.T) {
	t.Parallel()

	unlocked := diary(1, false)
	locked := diary(1, true)

	assert.False(t, CanRequestCollaboration(unlocked, nil))
	assert.False(t, CanRequestCollaboration(unlocked, user(1, models.RoleUser)), "owner has nothing to request")
	assert.True(t, CanRequestCollaboration(unlocked, user(2, models.RoleUser)))
	assert.False(t, CanRequestCollaboration(locked, user(2, models.RoleUser)), "lock blocks regular users")
	assert.False(t, CanRequestCollaboration(locked, user(3, models.RoleAdmin)), "lock blocks admins too")
	assert.True(t, CanRequestCollaboration(locked, user(4, models.RoleMaintainer)))
}

func TestCapabilitiesFor_LockSuppressesAdmin(t *testing.T) {
	t.Parallel()

	admin := user(3, models.RoleAdmin)

	caps := CapabilitiesFor(admin, diary(1, false))
	assert.True(t, caps.CanEditAny)
	assert.True(t, caps.CanReviewAny)
	assert.False(t, caps.CanViewLocked)

	caps = CapabilitiesFor(admin, diary(1, true))
	assert.False(t, caps.CanEditAny)
	assert.False(t, caps.CanReviewAny)
	assert.False(t, caps.CanViewLocked)
}
