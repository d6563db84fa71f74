package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lantern/internal/models"
	"lantern/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collabRepoStub is a stub for repository.CollaborationRepository.
type collabRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.CollaborationRequest, error)
	getByDiaryAndUserFn func(context.Context, uint, uint) (*models.CollaborationRequest, error)
	listForDiaryFn      func(context.Context, uint) ([]models.CollaborationRequest, error)
	listForDiariesFn    func(context.Context, []uint) (map[uint][]models.CollaborationRequest, error)
	listByUserFn        func(context.Context, uint) ([]models.CollaborationRequest, error)
	createFn            func(context.Context, *models.CollaborationRequest) error
	resetToPendingFn    func(context.Context, uint) error
	reviewFn            func(context.Context, uint, models.CollaborationStatus, uint, time.Time) error
}

func (s *collabRepoStub) GetByID(ctx context.Context, id uint) (*models.CollaborationRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *collabRepoStub) GetByDiaryAndUser(ctx context.Context, diaryID, userID uint) (*models.CollaborationRequest, error) {
	return s.getByDiaryAndUserFn(ctx, diaryID, userID)
}
func (s *collabRepoStub) ListForDiary(ctx context.Context, diaryID uint) ([]models.CollaborationRequest, error) {
	return s.listForDiaryFn(ctx, diaryID)
}
func (s *collabRepoStub) ListForDiaries(ctx context.Context, diaryIDs []uint) (map[uint][]models.CollaborationRequest, error) {
	return s.listForDiariesFn(ctx, diaryIDs)
}
func (s *collabRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.CollaborationRequest, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *collabRepoStub) Create(ctx context.Context, req *models.CollaborationRequest) error {
	return s.createFn(ctx, req)
}
func (s *collabRepoStub) ResetToPending(ctx context.Context, id uint) error {
	return s.resetToPendingFn(ctx, id)
}
func (s *collabRepoStub) Review(ctx context.Context, id uint, status models.CollaborationStatus, reviewerID uint, at time.Time) error {
	return s.reviewFn(ctx, id, status, reviewerID, at)
}

func noopCollabRepo() *collabRepoStub {
	return &collabRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.CollaborationRequest, error) {
			return nil, models.NewNotFoundError("Collaboration request", id)
		},
		getByDiaryAndUserFn: func(_ context.Context, _, _ uint) (*models.CollaborationRequest, error) { return nil, nil },
		listForDiaryFn:      func(_ context.Context, _ uint) ([]models.CollaborationRequest, error) { return nil, nil },
		listForDiariesFn: func(_ context.Context, _ []uint) (map[uint][]models.CollaborationRequest, error) {
			return map[uint][]models.CollaborationRequest{}, nil
		},
		listByUserFn:     func(_ context.Context, _ uint) ([]models.CollaborationRequest, error) { return nil, nil },
		createFn:         func(_ context.Context, _ *models.CollaborationRequest) error { return nil },
		resetToPendingFn: func(_ context.Context, _ uint) error { return nil },
		reviewFn: func(_ context.Context, _ uint, _ models.CollaborationStatus, _ uint, _ time.Time) error {
			return nil
		},
	}
}

// diaryRepoStub is a stub for repository.DiaryRepository.
type diaryRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Diary, error)
	createFn    func(context.Context, *models.Diary) error
	updateFn    func(context.Context, *models.Diary) error
	deleteFn    func(context.Context, uint) error
	listFn      func(context.Context, repository.DiaryListFilter) ([]models.Diary, int64, error)
	listByIDsFn func(context.Context, []uint) ([]models.Diary, error)
	setPinnedFn func(context.Context, uint, bool) error
	setLockedFn func(context.Context, uint, bool) error
}

func (s *diaryRepoStub) GetByID(ctx context.Context, id uint) (*models.Diary, error) {
	return s.getByIDFn(ctx, id)
}
func (s *diaryRepoStub) Create(ctx context.Context, d *models.Diary) error { return s.createFn(ctx, d) }
func (s *diaryRepoStub) Update(ctx context.Context, d *models.Diary) error { return s.updateFn(ctx, d) }
func (s *diaryRepoStub) Delete(ctx context.Context, id uint) error         { return s.deleteFn(ctx, id) }
func (s *diaryRepoStub) List(ctx context.Context, f repository.DiaryListFilter) ([]models.Diary, int64, error) {
	return s.listFn(ctx, f)
}
func (s *diaryRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]models.Diary, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *diaryRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *diaryRepoStub) SetLocked(ctx context.Context, id uint, locked bool) error {
	return s.setLockedFn(ctx, id, locked)
}

func noopDiaryRepo() *diaryRepoStub {
	return &diaryRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Diary, error) {
			return nil, models.NewNotFoundError("Diary", id)
		},
		createFn: func(_ context.Context, _ *models.Diary) error { return nil },
		updateFn: func(_ context.Context, _ *models.Diary) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ repository.DiaryListFilter) ([]models.Diary, int64, error) {
			return nil, 0, nil
		},
		listByIDsFn: func(_ context.Context, _ []uint) ([]models.Diary, error) { return nil, nil },
		setPinnedFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		setLockedFn: func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	listPinnedFirstFn func(context.Context, int, int) ([]models.User, error)
	countFollowersFn  func(context.Context, uint) (int64, error)
	countFollowingFn  func(context.Context, uint) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) ListPinnedFirst(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listPinnedFirstFn(ctx, limit, offset)
}
func (s *userRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *userRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateFn:          func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		listFn:            func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		listPinnedFirstFn: func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFollowersFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userDirectory backs a userRepoStub with a fixed set of users.
func userDirectory(users ...*models.User) *userRepoStub {
	stub := noopUserRepo()
	stub.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, models.NewNotFoundError("User", id)
	}
	return stub
}

// notifierStub records delivered notifications.
type notifierStub struct {
	sent []sentNotification
}

type sentNotification struct {
	UserID  uint
	Type    models.NotificationType
	Content string
}

func (n *notifierStub) Notify(_ context.Context, userID uint, typ models.NotificationType, content, _ string) {
	n.sent = append(n.sent, sentNotification{UserID: userID, Type: typ, Content: content})
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
