package service

import (
	"context"
	"strings"

	"lantern/internal/models"
	"lantern/internal/repository"
)

// CollectionInput carries user-supplied collection fields.
type CollectionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

// CollectionService handles diary collections.
type CollectionService struct {
	collectionRepo repository.CollectionRepository
	diaryRepo      repository.DiaryRepository
}

// NewCollectionService returns a new CollectionService.
func NewCollectionService(collectionRepo repository.CollectionRepository, diaryRepo repository.DiaryRepository) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, diaryRepo: diaryRepo}
}

// Create stores a new collection for the owner.
func (s *CollectionService) Create(ctx context.Context, ownerID uint, input CollectionInput) (*models.Collection, error) {
	if err := validateCollectionInput(&input); err != nil {
		return nil, err
	}

	collection := &models.Collection{
		UserID:      ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CoverImage:  input.CoverImage,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(ctx, collection.ID)
}

// Update applies the owner's edits.
func (s *CollectionService) Update(ctx context.Context, collectionID, actorID uint, input CollectionInput) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.UserID != actorID {
		return nil, models.NewForbiddenError("You can only edit your own collections")
	}
	if err := validateCollectionInput(&input); err != nil {
		return nil, err
	}

	collection.Title = strings.TrimSpace(input.Title)
	collection.Description = input.Description
	collection.CoverImage = input.CoverImage
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return s.collectionRepo.GetByID(ctx, collectionID)
}

// Delete removes a collection. Its diaries survive with the reference cleared.
func (s *CollectionService) Delete(ctx context.Context, collectionID, actorID uint) error {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if collection.UserID != actorID {
		return models.NewForbiddenError("You can only delete your own collections")
	}
	return s.collectionRepo.Delete(ctx, collectionID)
}

// Get returns a collection by ID.
func (s *CollectionService) Get(ctx context.Context, collectionID uint) (*models.Collection, error) {
	return s.collectionRepo.GetByID(ctx, collectionID)
}

// ListByUser returns a user's collections, newest first.
func (s *CollectionService) ListByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	return s.collectionRepo.ListByUser(ctx, userID)
}

func validateCollectionInput(input *CollectionInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(input.Title) > 120 {
		return models.NewValidationError("Title must be at most 120 characters")
	}
	return nil
}
