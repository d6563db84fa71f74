package server

import (
	"io"

	"lantern/internal/models"
	"lantern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/uploads/images
// @Summary Upload an image
// @Description Validate and store an image. The file is re-encoded to WebP, resized to fit 2048px and counted against the user's storage quota.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} service.UploadResult
// @Failure 400 {object} models.ErrorResponse
// @Router /uploads/images [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	result, err := s.uploadService.Upload(c.Context(), user.ID, service.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetGreeting handles GET /api/greeting
// @Summary Get the daily writing prompt
// @Tags greeting
// @Produce json
// @Success 200 {object} service.Greeting
// @Failure 404 {object} models.ErrorResponse
// @Router /greeting [get]
func (s *Server) GetGreeting(c *fiber.Ctx) error {
	if s.greetingService == nil {
		return models.RespondWithAppError(c, models.NewNotFoundError("Greeting", "daily"))
	}

	greeting, err := s.greetingService.Daily(nowUTC())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(greeting)
}
