package server

import (
	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the comment creation payload.
type CreateCommentRequest struct {
	DiaryID uint   `json:"diary_id"`
	Content string `json:"content"`
	ReplyTo *uint  `json:"reply_to"`
}

// CommentListResponse is the paginated comment list payload.
type CommentListResponse struct {
	Comments []models.Comment `json:"comments"`
	Total    int64            `json:"total"`
}

// GetComments handles GET /api/comments/diary/:diaryId
// @Summary List a diary's comments
// @Description Return the comments of a visible diary, oldest first.
// @Tags comments
// @Produce json
// @Param diaryId path int true "Diary ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} CommentListResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/diary/{diaryId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "diaryId")
	if err != nil {
		return nil
	}
	viewer := s.optionalUser(c)
	p := parsePagination(c, 20)

	comments, total, err := s.commentService.List(c.Context(), diaryID, viewer, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(CommentListResponse{Comments: comments, Total: total})
}

// CreateComment handles POST /api/comments
// @Summary Comment on a diary
// @Description Add a comment, optionally as a reply to another comment on the same diary.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment data"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.DiaryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("diary_id is required"))
	}

	comment, err := s.commentService.Create(c.Context(), req.DiaryID, user, req.Content, req.ReplyTo)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Description Delete a comment as its author, the diary owner or staff with edit rights on the diary.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.Context(), commentID, user); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
