package service

import (
	"context"
	"testing"
	"time"

	"lantern/internal/models"
	"lantern/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id uint, role models.Role) *models.User {
	return &models.User{ID: id, Username: "u", Role: role, Status: models.UserStatusActive}
}

func testDiary(id, ownerID uint, locked bool) *models.Diary {
	return &models.Diary{ID: id, UserID: ownerID, Title: "entry", Content: "words", IsLocked: locked}
}

func fixedDiaryRepo(d *models.Diary) *diaryRepoStub {
	stub := noopDiaryRepo()
	stub.getByIDFn = func(_ context.Context, id uint) (*models.Diary, error) {
		if id == d.ID {
			return d, nil
		}
		return nil, models.NewNotFoundError("Diary", id)
	}
	return stub
}

func TestCollabRequest_CreatesPending(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)

	collabRepo := noopCollabRepo()
	var created *models.CollaborationRequest
	collabRepo.createFn = func(_ context.Context, req *models.CollaborationRequest) error {
		created = req
		return nil
	}
	notifier := &notifierStub{}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, requester), notifier)

	req, err := svc.Request(context.Background(), diary.ID, requester.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.CollaborationStatusPending, req.Status)
	assert.Equal(t, requester.ID, created.UserID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, owner.ID, notifier.sent[0].UserID)
	assert.Equal(t, models.NotificationTypeCollabRequest, notifier.sent[0].Type)
}

func TestCollabRequest_OwnDiaryForbidden(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	svc := NewCollabService(noopCollabRepo(), fixedDiaryRepo(diary), userDirectory(owner), nil)

	_, err := svc.Request(context.Background(), diary.ID, owner.ID)
	assertForbiddenError(t, err)
}

func TestCollabRequest_LockedDiaryForbidden(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, true)
	svc := NewCollabService(noopCollabRepo(), fixedDiaryRepo(diary), userDirectory(owner, requester), nil)

	_, err := svc.Request(context.Background(), diary.ID, requester.ID)
	assertForbiddenError(t, err)
}

func TestCollabRequest_LockedDiaryForbiddenToAdmin(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	admin := testUser(3, models.RoleAdmin)
	diary := testDiary(10, owner.ID, true)
	svc := NewCollabService(noopCollabRepo(), fixedDiaryRepo(diary), userDirectory(owner, admin), nil)

	// The lock closes requests to admins as well, only maintainers pass
	_, err := svc.Request(context.Background(), diary.ID, admin.ID)
	assertForbiddenError(t, err)
}

func TestCollabRequest_LockedDiaryOpenToMaintainer(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	maintainer := testUser(4, models.RoleMaintainer)
	diary := testDiary(10, owner.ID, true)

	collabRepo := noopCollabRepo()
	var created *models.CollaborationRequest
	collabRepo.createFn = func(_ context.Context, req *models.CollaborationRequest) error {
		created = req
		return nil
	}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, maintainer), nil)

	req, err := svc.Request(context.Background(), diary.ID, maintainer.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.CollaborationStatusPending, req.Status)
}

func TestCollabRequest_PendingIsIdempotent(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)

	existing := &models.CollaborationRequest{ID: 5, DiaryID: diary.ID, UserID: requester.ID, Status: models.CollaborationStatusPending}
	collabRepo := noopCollabRepo()
	collabRepo.getByDiaryAndUserFn = func(_ context.Context, _, _ uint) (*models.CollaborationRequest, error) {
		return existing, nil
	}
	collabRepo.createFn = func(_ context.Context, _ *models.CollaborationRequest) error {
		t.Fatal("should not create a second row")
		return nil
	}
	notifier := &notifierStub{}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, requester), notifier)

	req, err := svc.Request(context.Background(), diary.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, req.ID)
	assert.Empty(t, notifier.sent)
}

func TestCollabRequest_RejectedResetsToPending(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)

	reviewedBy := owner.ID
	reviewedAt := time.Now().Add(-time.Hour)
	row := &models.CollaborationRequest{
		ID: 5, DiaryID: diary.ID, UserID: requester.ID,
		Status:           models.CollaborationStatusRejected,
		ApprovedByUserID: &reviewedBy,
		ApprovedAt:       &reviewedAt,
	}

	collabRepo := noopCollabRepo()
	collabRepo.getByDiaryAndUserFn = func(_ context.Context, _, _ uint) (*models.CollaborationRequest, error) {
		return row, nil
	}
	var resetID uint
	collabRepo.resetToPendingFn = func(_ context.Context, id uint) error {
		resetID = id
		row.Status = models.CollaborationStatusPending
		row.ApprovedByUserID = nil
		row.ApprovedAt = nil
		return nil
	}
	notifier := &notifierStub{}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, requester), notifier)

	req, err := svc.Request(context.Background(), diary.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, resetID)
	assert.Equal(t, models.CollaborationStatusPending, req.Status)
	assert.Nil(t, req.ApprovedByUserID)
	assert.Nil(t, req.ApprovedAt)
	require.Len(t, notifier.sent, 1)
}

func TestCollabRequest_RaceOnCreateSwallowedAsSuccess(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)

	winner := &models.CollaborationRequest{ID: 7, DiaryID: diary.ID, UserID: requester.ID, Status: models.CollaborationStatusPending}
	calls := 0
	collabRepo := noopCollabRepo()
	collabRepo.getByDiaryAndUserFn = func(_ context.Context, _, _ uint) (*models.CollaborationRequest, error) {
		calls++
		if calls == 1 {
			// First check sees nothing; the row appears between check and insert
			return nil, nil
		}
		return winner, nil
	}
	collabRepo.createFn = func(_ context.Context, _ *models.CollaborationRequest) error {
		return repository.ErrAlreadyExists
	}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, requester), nil)

	req, err := svc.Request(context.Background(), diary.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, req.ID)
}

func reviewFixture(t *testing.T, diary *models.Diary, reviewer *models.User, status models.CollaborationStatus) (*CollabService, *collabRepoStub, *notifierStub) {
	t.Helper()
	requester := testUser(2, models.RoleUser)
	owner := testUser(diary.UserID, models.RoleUser)

	row := &models.CollaborationRequest{ID: 5, DiaryID: diary.ID, UserID: requester.ID, Status: status}
	collabRepo := noopCollabRepo()
	collabRepo.getByIDFn = func(_ context.Context, id uint) (*models.CollaborationRequest, error) {
		if id == row.ID {
			return row, nil
		}
		return nil, models.NewNotFoundError("Collaboration request", id)
	}
	collabRepo.reviewFn = func(_ context.Context, _ uint, newStatus models.CollaborationStatus, reviewerID uint, at time.Time) error {
		row.Status = newStatus
		row.ApprovedByUserID = &reviewerID
		row.ApprovedAt = &at
		return nil
	}
	notifier := &notifierStub{}
	svc := NewCollabService(collabRepo, fixedDiaryRepo(diary), userDirectory(owner, requester, reviewer), notifier)
	return svc, collabRepo, notifier
}

func TestCollabReview_OwnerApproves(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	svc, _, notifier := reviewFixture(t, diary, owner, models.CollaborationStatusPending)

	req, err := svc.Review(context.Background(), 5, owner.ID, models.ReviewActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusApproved, req.Status)
	require.NotNil(t, req.ApprovedByUserID)
	assert.Equal(t, owner.ID, *req.ApprovedByUserID)
	assert.NotNil(t, req.ApprovedAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationTypeCollabApprove, notifier.sent[0].Type)
}

func TestCollabReview_AdminOnUnlockedDiary(t *testing.T) {
	admin := testUser(9, models.RoleAdmin)
	diary := testDiary(10, 1, false)
	svc, _, _ := reviewFixture(t, diary, admin, models.CollaborationStatusPending)

	req, err := svc.Review(context.Background(), 5, admin.ID, models.ReviewActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusRejected, req.Status)
}

func TestCollabReview_LockExcludesAdmin(t *testing.T) {
	admin := testUser(9, models.RoleAdmin)
	diary := testDiary(10, 1, true)
	svc, _, _ := reviewFixture(t, diary, admin, models.CollaborationStatusPending)

	// The lock strips admins of review standing
	_, err := svc.Review(context.Background(), 5, admin.ID, models.ReviewActionApprove)
	assertForbiddenError(t, err)
}

func TestCollabReview_MaintainerBypassesLock(t *testing.T) {
	maintainer := testUser(9, models.RoleMaintainer)
	diary := testDiary(10, 1, true)
	svc, _, _ := reviewFixture(t, diary, maintainer, models.CollaborationStatusPending)

	req, err := svc.Review(context.Background(), 5, maintainer.ID, models.ReviewActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusApproved, req.Status)
}

func TestCollabReview_RequesterCannotReview(t *testing.T) {
	requester := testUser(2, models.RoleUser)
	diary := testDiary(10, 1, false)
	svc, _, _ := reviewFixture(t, diary, requester, models.CollaborationStatusPending)

	_, err := svc.Review(context.Background(), 5, requester.ID, models.ReviewActionApprove)
	assertForbiddenError(t, err)
}

func TestCollabReview_RejectOverridesApproval(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	svc, _, notifier := reviewFixture(t, diary, owner, models.CollaborationStatusApproved)

	// A later decision overwrites an earlier one; the owner may take back
	// an approval by rejecting the same row
	req, err := svc.Review(context.Background(), 5, owner.ID, models.ReviewActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusRejected, req.Status)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationTypeCollabReject, notifier.sent[0].Type)
}

func TestCollabReview_ApproveOverridesRejection(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	svc, _, _ := reviewFixture(t, diary, owner, models.CollaborationStatusRejected)

	req, err := svc.Review(context.Background(), 5, owner.ID, models.ReviewActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusApproved, req.Status)
}

func TestCollabReview_RevokeApproved(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	svc, _, notifier := reviewFixture(t, diary, owner, models.CollaborationStatusApproved)

	req, err := svc.Review(context.Background(), 5, owner.ID, models.ReviewActionRevoke)
	require.NoError(t, err)
	assert.Equal(t, models.CollaborationStatusRevoked, req.Status)
	// Revocation still stamps reviewer and time
	assert.NotNil(t, req.ApprovedByUserID)
	assert.NotNil(t, req.ApprovedAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationTypeCollabRevoke, notifier.sent[0].Type)
}
