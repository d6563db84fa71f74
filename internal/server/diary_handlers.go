package server

import (
	"context"

	"lantern/internal/models"
	"lantern/internal/repository"
	"lantern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DiaryListResponse is the paginated diary list payload.
type DiaryListResponse struct {
	Diaries []models.Diary `json:"diaries"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// flagRequest toggles a boolean diary flag.
type flagRequest struct {
	Value bool `json:"value"`
}

// GetDiaries handles GET /api/diaries
// @Summary List diaries
// @Description List diaries visible to the viewer, pinned first then newest. Filter by user, user_id or collection_id.
// @Tags diaries
// @Produce json
// @Param user query string false "Filter by owner username"
// @Param user_id query int false "Filter by owner ID"
// @Param collection_id query int false "Filter by collection"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} DiaryListResponse
// @Router /diaries [get]
func (s *Server) GetDiaries(c *fiber.Ctx) error {
	viewer := s.optionalUser(c)
	p := parsePagination(c, 20)

	filter := repository.DiaryListFilter{Limit: p.Limit, Offset: p.Offset}
	if username := c.Query("user"); username != "" {
		owner, err := s.userService.GetByUsername(c.Context(), username)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		filter.OwnerID = owner.ID
	}
	if ownerID := c.QueryInt("user_id", 0); ownerID > 0 {
		filter.OwnerID = uint(ownerID)
	}
	if collectionID := c.QueryInt("collection_id", 0); collectionID > 0 {
		filter.CollectionID = uint(collectionID)
	}

	diaries, total, err := s.diaryService.List(c.Context(), viewer, filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(DiaryListResponse{
		Diaries: diaries,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
}

// GetDiary handles GET /api/diaries/:id
// @Summary Get a diary
// @Description Fetch a diary with the viewer's permission projection. A diary the viewer may not see is reported as absent.
// @Tags diaries
// @Produce json
// @Param id path int true "Diary ID"
// @Success 200 {object} service.DiaryView
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id} [get]
func (s *Server) GetDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewer := s.optionalUser(c)

	view, err := s.diaryService.GetWithPermissions(c.Context(), diaryID, viewer)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// CreateDiary handles POST /api/diaries
// @Summary Create a diary
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.DiaryInput true "Diary data"
// @Success 201 {object} models.Diary
// @Failure 400 {object} models.ErrorResponse
// @Router /diaries [post]
func (s *Server) CreateDiary(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.DiaryInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	diary, err := s.diaryService.Create(c.Context(), user.ID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(diary)
}

// UpdateDiary handles PUT /api/diaries/:id
// @Summary Update a diary
// @Description Apply edits. Editable by the maintainer and the owner always, by admins and approved collaborators only while the diary is unlocked.
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Param request body service.DiaryInput true "Diary data"
// @Success 200 {object} models.Diary
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id} [put]
func (s *Server) UpdateDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.DiaryInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	diary, err := s.diaryService.Update(c.Context(), diaryID, user, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(diary)
}

// DeleteDiary handles DELETE /api/diaries/:id
// @Summary Delete a diary
// @Tags diaries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /diaries/{id} [delete]
func (s *Server) DeleteDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.diaryService.Delete(c.Context(), diaryID, user); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Diary deleted"})
}

// PinDiary handles PATCH /api/diaries/:id/pin
// @Summary Pin or unpin a diary
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Param request body flagRequest true "Pin state"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /diaries/{id}/pin [patch]
func (s *Server) PinDiary(c *fiber.Ctx) error {
	return s.toggleDiaryFlag(c, s.diaryService.SetPinned)
}

// LockDiary handles PATCH /api/diaries/:id/lock
// @Summary Lock or unlock a diary
// @Description While locked, the diary is visible and editable only by its owner and the maintainer.
// @Tags diaries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Diary ID"
// @Param request body flagRequest true "Lock state"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /diaries/{id}/lock [patch]
func (s *Server) LockDiary(c *fiber.Ctx) error {
	return s.toggleDiaryFlag(c, s.diaryService.SetLocked)
}

func (s *Server) toggleDiaryFlag(c *fiber.Ctx, apply func(ctx context.Context, diaryID uint, actor *models.User, value bool) error) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req flagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := apply(c.Context(), diaryID, user, req.Value); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"value": req.Value})
}
