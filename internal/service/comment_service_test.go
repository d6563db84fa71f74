package service

import (
	"context"
	"testing"

	"lantern/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentRepoStub struct {
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	createFn       func(context.Context, *models.Comment) error
	deleteFn       func(context.Context, uint) error
	listForDiaryFn func(context.Context, uint, int, int) ([]models.Comment, int64, error)
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *commentRepoStub) ListForDiary(ctx context.Context, diaryID uint, limit, offset int) ([]models.Comment, int64, error) {
	return s.listForDiaryFn(ctx, diaryID, limit, offset)
}

func commentStore(comments ...*models.Comment) *commentRepoStub {
	stub := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 100
			return nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listForDiaryFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, int64, error) {
			return nil, 0, nil
		},
	}
	stub.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		for _, c := range comments {
			if c.ID == id {
				return c, nil
			}
		}
		if id == 100 {
			return &models.Comment{ID: 100}, nil
		}
		return nil, models.NewNotFoundError("Comment", id)
	}
	return stub
}

func TestCommentCreate_NotifiesOwner(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	author := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	notifier := &notifierStub{}
	svc := NewCommentService(commentStore(), fixedDiaryRepo(diary), notifier)

	_, err := svc.Create(context.Background(), diary.ID, author, "nice entry", nil)
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, owner.ID, notifier.sent[0].UserID)
	assert.Equal(t, models.NotificationTypeComment, notifier.sent[0].Type)
}

func TestCommentCreate_OwnerCommentIsSilent(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	notifier := &notifierStub{}
	svc := NewCommentService(commentStore(), fixedDiaryRepo(diary), notifier)

	_, err := svc.Create(context.Background(), diary.ID, owner, "note to self", nil)
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestCommentCreate_ReplyToOwnerNotifiesOnce(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	author := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	parent := &models.Comment{ID: 50, DiaryID: diary.ID, UserID: owner.ID, Content: "first"}
	notifier := &notifierStub{}
	svc := NewCommentService(commentStore(parent), fixedDiaryRepo(diary), notifier)

	replyTo := parent.ID
	_, err := svc.Create(context.Background(), diary.ID, author, "agreed", &replyTo)
	require.NoError(t, err)

	// The owner is the parent author; one reply notification, no comment one
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.NotificationTypeReply, notifier.sent[0].Type)
}

func TestCommentCreate_ReplyMustShareDiary(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	author := testUser(2, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	parent := &models.Comment{ID: 50, DiaryID: 99, UserID: 3}
	svc := NewCommentService(commentStore(parent), fixedDiaryRepo(diary), nil)

	replyTo := parent.ID
	_, err := svc.Create(context.Background(), diary.ID, author, "lost reply", &replyTo)
	assertValidationError(t, err)
}

func TestCommentCreate_LockedDiaryHidden(t *testing.T) {
	author := testUser(2, models.RoleUser)
	diary := testDiary(10, 1, true)
	svc := NewCommentService(commentStore(), fixedDiaryRepo(diary), nil)

	_, err := svc.Create(context.Background(), diary.ID, author, "hello", nil)
	assertNotFoundError(t, err)
}

func TestCommentDelete_Rights(t *testing.T) {
	owner := testUser(1, models.RoleUser)
	author := testUser(2, models.RoleUser)
	admin := testUser(3, models.RoleAdmin)
	stranger := testUser(4, models.RoleUser)
	diary := testDiary(10, owner.ID, false)
	comment := &models.Comment{ID: 50, DiaryID: diary.ID, UserID: author.ID}

	cases := []struct {
		name    string
		actor   *models.User
		wantErr bool
	}{
		{"author deletes own", author, false},
		{"owner deletes", owner, false},
		{"admin deletes", admin, false},
		{"stranger forbidden", stranger, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCommentService(commentStore(comment), fixedDiaryRepo(diary), nil)
			err := svc.Delete(context.Background(), comment.ID, tc.actor)
			if tc.wantErr {
				assertForbiddenError(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
