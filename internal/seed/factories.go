// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"lantern/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username:    username,
		DisplayName: gofakeit.Name(),
		Email:       gofakeit.Email(),
		Bio:         gofakeit.Sentence(10),
		Role:        models.RoleUser,
		Status:      models.UserStatusActive,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateDiary constructs and persists a diary owned by the given user,
// with a created_at spread over the recent past so lists look lived-in.
func (f *Factory) CreateDiary(owner *models.User, overrides ...func(*models.Diary)) (*models.Diary, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)

	diary := &models.Diary{
		UserID:    owner.ID,
		Title:     gofakeit.Sentence(4),
		Content:   gofakeit.Paragraph(2, 4, 8, "\n\n"),
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}
	if f.rng.Float32() < 0.3 {
		diary.CoverImage = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}
	if f.rng.Float32() < 0.15 {
		diary.IsLocked = true
	}

	for _, override := range overrides {
		override(diary)
	}

	if err := f.db.Create(diary).Error; err != nil {
		return nil, err
	}
	return diary, nil
}

// CreateCollection constructs and persists a collection for the given user.
func (f *Factory) CreateCollection(owner *models.User, overrides ...func(*models.Collection)) (*models.Collection, error) {
	collection := &models.Collection{
		UserID:      owner.ID,
		Title:       gofakeit.BookTitle(),
		Description: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(collection)
	}

	if err := f.db.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// CreateComment constructs and persists a comment on the provided diary
// authored by the provided user.
func (f *Factory) CreateComment(author *models.User, diary *models.Diary, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		DiaryID: diary.ID,
		UserID:  author.ID,
		Content: gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateCollaboration persists a collaboration request from `user` on
// `diary` in the given status. Approved and rejected requests are stamped
// with the diary owner as the reviewer.
func (f *Factory) CreateCollaboration(user *models.User, diary *models.Diary, status models.CollaborationStatus) (*models.CollaborationRequest, error) {
	req := &models.CollaborationRequest{
		DiaryID: diary.ID,
		UserID:  user.ID,
		Status:  status,
	}
	if status != models.CollaborationStatusPending {
		now := time.Now()
		req.ApprovedByUserID = &diary.UserID
		req.ApprovedAt = &now
	}
	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// CreateFollow persists a follow edge between two users.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	return f.db.Create(&models.Follow{
		FollowerID:  follower.ID,
		FollowingID: following.ID,
	}).Error
}

// CreateCollect persists a bookmark from `user` on `diary`.
func (f *Factory) CreateCollect(user *models.User, diary *models.Diary) error {
	return f.db.Create(&models.DiaryCollect{
		UserID:  user.ID,
		DiaryID: diary.ID,
	}).Error
}

// CreateDiariesBatch persists multiple diaries in a single DB call.
func (f *Factory) CreateDiariesBatch(diaries []*models.Diary) error {
	if len(diaries) == 0 {
		return nil
	}
	if err := f.db.Create(&diaries).Error; err != nil {
		return err
	}
	log.Printf("CreateDiariesBatch: %d diaries", len(diaries))
	return nil
}
