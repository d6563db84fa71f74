package server

import (
	"lantern/internal/models"
	"lantern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserCollections handles GET /api/collections/user/:username
// @Summary List a user's collections
// @Tags collections
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.Collection
// @Failure 404 {object} models.ErrorResponse
// @Router /collections/user/{username} [get]
func (s *Server) GetUserCollections(c *fiber.Ctx) error {
	owner, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	collections, err := s.collectionService.ListByUser(c.Context(), owner.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(collections)
}

// GetCollection handles GET /api/collections/:id
// @Summary Get a collection
// @Tags collections
// @Produce json
// @Param id path int true "Collection ID"
// @Success 200 {object} models.Collection
// @Failure 404 {object} models.ErrorResponse
// @Router /collections/{id} [get]
func (s *Server) GetCollection(c *fiber.Ctx) error {
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collection, err := s.collectionService.Get(c.Context(), collectionID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(collection)
}

// CreateCollection handles POST /api/collections
// @Summary Create a collection
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CollectionInput true "Collection data"
// @Success 201 {object} models.Collection
// @Failure 400 {object} models.ErrorResponse
// @Router /collections [post]
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.CollectionInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.Create(c.Context(), user.ID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// UpdateCollection handles PUT /api/collections/:id
// @Summary Update a collection
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Param request body service.CollectionInput true "Collection data"
// @Success 200 {object} models.Collection
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /collections/{id} [put]
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.CollectionInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.Update(c.Context(), collectionID, user.ID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/collections/:id
// @Summary Delete a collection
// @Description Delete a collection. Its diaries survive with the collection reference cleared.
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Collection ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /collections/{id} [delete]
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.collectionService.Delete(c.Context(), collectionID, user.ID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collection deleted"})
}
