package server

import (
	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CollectDiary handles POST /api/diaries/:id/collect
// @Summary Bookmark a diary
// @Description Bookmark a visible diary. Repeats are idempotent.
// @Tags collects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id}/collect [post]
func (s *Server) CollectDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.collectService.Collect(c.Context(), user, diaryID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collected": true})
}

// UncollectDiary handles DELETE /api/diaries/:id/collect
// @Summary Remove a bookmark
// @Tags collects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Success 200 {object} map[string]interface{}
// @Router /diaries/{id}/collect [delete]
func (s *Server) UncollectDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.collectService.Uncollect(c.Context(), user.ID, diaryID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collected": false})
}

// GetCollectStatus handles GET /api/diaries/:id/collect-status
// @Summary Get my bookmark status for a diary
// @Tags collects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Success 200 {object} map[string]interface{}
// @Router /diaries/{id}/collect-status [get]
func (s *Server) GetCollectStatus(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	collected, count, err := s.collectService.Status(c.Context(), user.ID, diaryID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"collected": collected,
		"count":     count,
	})
}

// GetUserCollects handles GET /api/collects/:username
// @Summary List a user's bookmarks
// @Description List the diaries a user bookmarked. Diaries the viewer may not see are filtered out.
// @Tags collects
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.DiaryCollect
// @Failure 404 {object} models.ErrorResponse
// @Router /collects/{username} [get]
func (s *Server) GetUserCollects(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	owner, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	p := parsePagination(c, 20)

	collects, err := s.collectService.ListByUser(c.Context(), owner.ID, user, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(collects)
}
