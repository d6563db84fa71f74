package authz

import (
	"testing"

	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
)

func roster(entries ...models.CollaborationRequest) []models.CollaborationRequest {
	return entries
}

func entry(userID uint, status models.CollaborationStatus) models.CollaborationRequest {
	return models.CollaborationRequest{DiaryID: 1, UserID: userID, Status: status}
}

func TestProject_Anonymous(t *testing.T) {
	t.Parallel()

	p := Project(diary(1, false), nil, nil)
	assert.False(t, p.CanEdit)
	assert.False(t, p.IsOwner)
	assert.Equal(t, CollabLabelNone, p.CollaborationStatus)
}

func TestProject_StatusPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		diary      *models.Diary
		viewer     *models.User
		roster     []models.CollaborationRequest
		wantStatus string
		wantEdit   bool
	}{
		{
			name:       "owner label wins over everything",
			diary:      diary(1, true),
			viewer:     user(1, models.RoleMaintainer),
			roster:     roster(entry(1, models.CollaborationStatusRejected)),
			wantStatus: CollabLabelOwner,
			wantEdit:   true,
		},
		{
			name:       "maintainer is staff even on locked diaries",
			diary:      diary(1, true),
			viewer:     user(4, models.RoleMaintainer),
			wantStatus: CollabLabelStaff,
			wantEdit:   true,
		},
		{
			name:       "admin is staff on unlocked diaries",
			diary:      diary(1, false),
			viewer:     user(3, models.RoleAdmin),
			wantStatus: CollabLabelStaff,
			wantEdit:   true,
		},
		{
			name:   "admin on locked diary falls through to own request state",
			diary:  diary(1, true),
			viewer: user(3, models.RoleAdmin),
			roster: roster(entry(3, models.CollaborationStatusPending)),
			// Same precedence as canEdit: no staff label where no staff rights.
			wantStatus: string(models.CollaborationStatusPending),
			wantEdit:   false,
		},
		{
			name:       "admin on locked diary with no row is none",
			diary:      diary(1, true),
			viewer:     user(3, models.RoleAdmin),
			wantStatus: CollabLabelNone,
			wantEdit:   false,
		},
		{
			name:       "approved collaborator",
			diary:      diary(1, false),
			viewer:     user(2, models.RoleUser),
			roster:     roster(entry(2, models.CollaborationStatusApproved)),
			wantStatus: string(models.CollaborationStatusApproved),
			wantEdit:   true,
		},
		{
			name:       "pending requester sees pending, cannot edit",
			diary:      diary(1, false),
			viewer:     user(2, models.RoleUser),
			roster:     roster(entry(2, models.CollaborationStatusPending)),
			wantStatus: string(models.CollaborationStatusPending),
			wantEdit:   false,
		},
		{
			name:       "stranger sees none",
			diary:      diary(1, false),
			viewer:     user(2, models.RoleUser),
			roster:     roster(entry(5, models.CollaborationStatusApproved)),
			wantStatus: CollabLabelNone,
			wantEdit:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.diary, tt.viewer, tt.roster)
			assert.Equal(t, tt.wantStatus, p.CollaborationStatus)
			assert.Equal(t, tt.wantEdit, p.CanEdit)
		})
	}
}

func TestPendingEditors_PrivilegedOnly(t *testing.T) {
	t.Parallel()

	d := diary(1, false)
	r := roster(
		entry(2, models.CollaborationStatusPending),
		entry(5, models.CollaborationStatusApproved),
		entry(6, models.CollaborationStatusPending),
	)

	for _, reviewer := range []*models.User{
		user(1, models.RoleUser),       // owner
		user(3, models.RoleAdmin),      // admin
		user(4, models.RoleMaintainer), // maintainer
	} {
		pending := PendingEditors(d, reviewer, r)
		assert.Len(t, pending, 2)
		for _, e := range pending {
			assert.Equal(t, models.CollaborationStatusPending, e.Status)
		}
	}

	// A pending requester does not see the pending list, not even themselves.
	assert.Nil(t, PendingEditors(d, user(2, models.RoleUser), r))
	assert.Nil(t, PendingEditors(d, nil, r))
}

func TestApprovedEditors(t *testing.T) {
	t.Parallel()

	r := roster(
		entry(2, models.CollaborationStatusPending),
		entry(5, models.CollaborationStatusApproved),
		entry(7, models.CollaborationStatusRevoked),
	)
	approved := ApprovedEditors(r)
	assert.Len(t, approved, 1)
	assert.Equal(t, uint(5), approved[0].UserID)

	assert.Nil(t, ApprovedEditors(nil))
}
