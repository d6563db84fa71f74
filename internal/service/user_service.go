package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lantern/internal/authz"
	"lantern/internal/models"
	"lantern/internal/repository"
)

// Profile is a user joined with their social counts.
type Profile struct {
	User        *models.User `json:"user"`
	Followers   int64        `json:"followers"`
	Following   int64        `json:"following"`
	IsFollowing bool         `json:"is_following"`
}

// ProfileInput carries user-editable profile fields.
type ProfileInput struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// QuotaInput carries admin-set upload limits.
type QuotaInput struct {
	MaxUploadSizeBytes int64 `json:"max_upload_size_bytes"`
	StorageQuotaBytes  int64 `json:"storage_quota_bytes"`
}

// UserExport bundles a user's own data for download.
type UserExport struct {
	User        *models.User                  `json:"user"`
	Diaries     []models.Diary                `json:"diaries"`
	Collections []models.Collection           `json:"collections"`
	Requests    []models.CollaborationRequest `json:"collaboration_requests"`
}

// UserService handles profiles, the directory and account administration.
type UserService struct {
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	diaryRepo      repository.DiaryRepository
	collectionRepo repository.CollectionRepository
	collabRepo     repository.CollaborationRepository
	notifier       Notifier
}

// NewUserService returns a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	diaryRepo repository.DiaryRepository,
	collectionRepo repository.CollectionRepository,
	collabRepo repository.CollaborationRepository,
	notifier Notifier,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		followRepo:     followRepo,
		diaryRepo:      diaryRepo,
		collectionRepo: collectionRepo,
		collabRepo:     collabRepo,
		notifier:       notifier,
	}
}

// GetByID returns the bare user record.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByUsername resolves a username to the user record.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// GetProfile returns a user's profile with follower counts and, when viewed
// by someone else, whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, userID uint, viewer *models.User) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.userRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.userRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user, Followers: followers, Following: following}
	if viewer != nil && viewer.ID != userID {
		follow, err := s.followRepo.Get(ctx, viewer.ID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = follow != nil
	}
	return profile, nil
}

// UpdateProfile applies the user's own profile edits.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if len(displayName) > 48 {
		return nil, models.NewValidationError("Display name must be at most 48 characters")
	}
	if len(input.Bio) > 4000 {
		return nil, models.NewValidationError("Bio must be at most 4000 characters")
	}

	user.DisplayName = displayName
	user.Bio = input.Bio
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Directory lists users with pinned accounts first.
func (s *UserService) Directory(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.userRepo.ListPinnedFirst(ctx, limit, offset)
}

// Follow makes follower follow target and notifies the target.
func (s *UserService) Follow(ctx context.Context, follower *models.User, targetID uint) error {
	if follower == nil {
		return models.NewUnauthorizedError("Login required")
	}
	if follower.ID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	existing, err := s.followRepo.Get(ctx, follower.ID, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := s.followRepo.Create(ctx, &models.Follow{FollowerID: follower.ID, FollowingID: targetID}); err != nil {
		return err
	}

	if s.notifier != nil {
		content := fmt.Sprintf("%s started following you", follower.DisplayOrUsername())
		s.notifier.Notify(ctx, targetID, models.NotificationTypeFollow, content, fmt.Sprintf("/users/%d", follower.ID))
	}
	return nil
}

// Unfollow removes the relationship. Removing a non-existent follow is a no-op.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	return s.followRepo.Delete(ctx, followerID, targetID)
}

// ListFollowers returns the users following userID.
func (s *UserService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	return s.followRepo.ListFollowers(ctx, userID, limit, offset)
}

// ListFollowing returns the users userID follows.
func (s *UserService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	return s.followRepo.ListFollowing(ctx, userID, limit, offset)
}

// SetBanned bans or unbans an account. The actor must outrank the target;
// staff of equal or higher rank cannot be banned.
func (s *UserService) SetBanned(ctx context.Context, actor *models.User, targetID uint, banned bool) (*models.User, error) {
	if actor == nil || authz.Rank(actor.Role) < 1 {
		return nil, models.NewForbiddenError("Admin access required")
	}
	if actor.ID == targetID {
		return nil, models.NewValidationError("You cannot ban yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if authz.Rank(target.Role) >= authz.Rank(actor.Role) {
		return nil, models.NewForbiddenError("You cannot ban a user of equal or higher rank")
	}

	if banned {
		target.Status = models.UserStatusBanned
	} else {
		target.Status = models.UserStatusActive
	}
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetRole changes a user's role. Only the maintainer tier may grant or revoke
// roles, and the maintainer role itself is never assigned through the API.
func (s *UserService) SetRole(ctx context.Context, actor *models.User, targetID uint, role models.Role) (*models.User, error) {
	if actor == nil || actor.Role != models.RoleMaintainer {
		return nil, models.NewForbiddenError("Maintainer access required")
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewValidationError("Role must be user or admin")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleMaintainer {
		return nil, models.NewForbiddenError("The maintainer role cannot be changed")
	}

	target.Role = role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetPinned pins or unpins an account in the directory.
func (s *UserService) SetPinned(ctx context.Context, actor *models.User, targetID uint, pinned bool) (*models.User, error) {
	if actor == nil || authz.Rank(actor.Role) < 1 {
		return nil, models.NewForbiddenError("Admin access required")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if pinned {
		now := time.Now()
		target.PinnedAt = &now
	} else {
		target.PinnedAt = nil
	}
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetQuotas adjusts a user's upload limits.
func (s *UserService) SetQuotas(ctx context.Context, actor *models.User, targetID uint, input QuotaInput) (*models.User, error) {
	if actor == nil || authz.Rank(actor.Role) < 1 {
		return nil, models.NewForbiddenError("Admin access required")
	}
	if input.MaxUploadSizeBytes <= 0 || input.StorageQuotaBytes <= 0 {
		return nil, models.NewValidationError("Quotas must be positive")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	target.MaxUploadSizeBytes = input.MaxUploadSizeBytes
	target.StorageQuotaBytes = input.StorageQuotaBytes
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Export gathers the user's own content for download.
func (s *UserService) Export(ctx context.Context, userID uint) (*UserExport, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	diaries, _, err := s.diaryRepo.List(ctx, repository.DiaryListFilter{
		OwnerID:       userID,
		IncludeLocked: true,
		Limit:         100,
	})
	if err != nil {
		return nil, err
	}
	collections, err := s.collectionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.collabRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserExport{
		User:        user,
		Diaries:     diaries,
		Collections: collections,
		Requests:    requests,
	}, nil
}
