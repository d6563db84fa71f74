package seed

import (
	"fmt"
	"log"

	"lantern/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers   int
	NumDiaries int
	// MaxDays spreads generated created_at timestamps over the past N days.
	MaxDays int
	// SkipBcrypt stores plaintext passwords to speed up large seeds.
	SkipBcrypt bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, diary_collects, diary_editors, diaries, collections, follows, notifications, user_uploads, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// EnsureMaintainer creates the maintainer account if it does not exist.
// The maintainer bypasses diary locks, so exactly one well-known account
// should carry the role.
func (s *Seeder) EnsureMaintainer(username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("maintainer username is empty")
	}

	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err == nil {
		if user.Role != models.RoleMaintainer {
			if uerr := s.db.Model(&user).Update("role", models.RoleMaintainer).Error; uerr != nil {
				return nil, uerr
			}
			user.Role = models.RoleMaintainer
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user = models.User{
		Username:    username,
		DisplayName: "Site Maintainer",
		Email:       fmt.Sprintf("%s@example.com", username),
		Password:    string(hashedPassword),
		Role:        models.RoleMaintainer,
		Status:      models.UserStatusActive,
	}
	if cerr := s.db.Create(&user).Error; cerr != nil {
		return nil, cerr
	}
	return &user, nil
}

// SeedCommunity creates `count` users, including one admin for every
// twenty regular accounts.
func (s *Seeder) SeedCommunity(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		var overrides []func(*models.User)
		if i > 0 && i%20 == 0 {
			overrides = append(overrides, func(u *models.User) { u.Role = models.RoleAdmin })
		}
		user, err := s.factory.CreateUser(overrides...)
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// SeedDiaries creates `count` diaries spread across the given users, each
// with a sprinkle of comments and bookmarks from the rest of the community.
func (s *Seeder) SeedDiaries(users []*models.User, count int) ([]*models.Diary, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own diaries")
	}

	diaries := make([]*models.Diary, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		diary, err := s.factory.CreateDiary(owner)
		if err != nil {
			return nil, err
		}
		diaries = append(diaries, diary)

		// Comments only land on unlocked diaries; locked ones are hidden
		// from everyone but the owner and maintainer anyway.
		if !diary.IsLocked {
			for c := 0; c < s.factory.rng.Intn(4); c++ {
				commenter := users[s.factory.rng.Intn(len(users))]
				if _, cerr := s.factory.CreateComment(commenter, diary); cerr != nil {
					return nil, cerr
				}
			}
			if s.factory.rng.Float32() < 0.2 {
				collector := users[s.factory.rng.Intn(len(users))]
				if collector.ID != owner.ID {
					_ = s.factory.CreateCollect(collector, diary)
				}
			}
		}

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d diaries...", i)
		}
	}
	return diaries, nil
}

// SeedCollaborations files collaboration requests across the seeded
// diaries, approving roughly half so the editor roster is populated.
func (s *Seeder) SeedCollaborations(users []*models.User, diaries []*models.Diary) (int, error) {
	if len(users) < 2 || len(diaries) == 0 {
		return 0, nil
	}

	created := 0
	for _, diary := range diaries {
		if diary.IsLocked || s.factory.rng.Float32() > 0.25 {
			continue
		}
		requester := users[s.factory.rng.Intn(len(users))]
		if requester.ID == diary.UserID {
			continue
		}

		status := models.CollaborationStatusPending
		switch s.factory.rng.Intn(3) {
		case 0:
			status = models.CollaborationStatusApproved
		case 1:
			status = models.CollaborationStatusRejected
		}

		if _, err := s.factory.CreateCollaboration(requester, diary, status); err != nil {
			// Unique index on (diary, user): duplicates are fine to skip
			continue
		}
		created++
	}
	return created, nil
}

// SeedFollowGraph wires a sparse follow graph across the users.
func (s *Seeder) SeedFollowGraph(users []*models.User) error {
	for _, follower := range users {
		for f := 0; f < s.factory.rng.Intn(5); f++ {
			target := users[s.factory.rng.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			_ = s.factory.CreateFollow(follower, target)
		}
	}
	return nil
}
