package server

import (
	"lantern/internal/authz"
	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
)

// reviewRequest carries the reviewer's decision.
type reviewRequest struct {
	Action models.ReviewAction `json:"action"`
}

// CollaboratorsResponse is the roster payload for a diary.
type CollaboratorsResponse struct {
	Permissions authz.Permissions             `json:"permissions"`
	Editors     []models.CollaborationRequest `json:"editors"`
	// Pending is present only for viewers with reviewer standing.
	Pending []models.CollaborationRequest `json:"pending,omitempty"`
}

// RequestCollaboration handles POST /api/diaries/:id/collaborators
// @Summary Request collaboration on a diary
// @Description File a collaboration request. Repeats are idempotent; a rejected or revoked request returns to pending.
// @Tags collaboration
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Success 201 {object} models.CollaborationRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id}/collaborators [post]
func (s *Server) RequestCollaboration(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	req, err := s.collabService.Request(c.Context(), diaryID, user.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// ReviewCollaboration handles PATCH /api/diaries/:id/collaborators/:userId
// @Summary Review a collaboration request
// @Description Approve, reject or revoke the request filed by the given user. Reviewer standing follows the owner, maintainer and, while unlocked, admins.
// @Tags collaboration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Param userId path int true "Requesting user ID"
// @Param request body reviewRequest true "Decision: approve, reject or revoke"
// @Success 200 {object} models.CollaborationRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id}/collaborators/{userId} [patch]
func (s *Server) ReviewCollaboration(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.collabService.ReviewByDiaryAndUser(c.Context(), diaryID, targetID, user.ID, req.Action)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(updated)
}

// GetCollaborators handles GET /api/diaries/:id/collaborators
// @Summary Get a diary's collaborator roster
// @Description Return the viewer's permission projection with the approved editors. Pending requests appear only for reviewers.
// @Tags collaboration
// @Produce json
// @Param id path int true "Diary ID"
// @Success 200 {object} CollaboratorsResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id}/collaborators [get]
func (s *Server) GetCollaborators(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer := s.optionalUser(c)

	perms, editors, pending, err := s.collabService.Roster(c.Context(), diaryID, viewer)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(CollaboratorsResponse{
		Permissions: perms,
		Editors:     editors,
		Pending:     pending,
	})
}

// GetMyCollaborations handles GET /api/diaries/collaborations/mine
// @Summary List my collaboration requests
// @Tags collaboration
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CollaborationRequest
// @Router /diaries/collaborations/mine [get]
func (s *Server) GetMyCollaborations(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	requests, err := s.collabService.RequestsByUser(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}
