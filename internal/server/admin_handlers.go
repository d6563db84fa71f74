package server

import (
	"lantern/internal/authz"
	"lantern/internal/models"
	"lantern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusRequest carries a ban/unban decision.
type statusRequest struct {
	Status models.UserStatus `json:"status"`
}

// roleRequest carries a role change.
type roleRequest struct {
	Role models.Role `json:"role"`
}

// AdminListUsers handles GET /api/admin/users
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	if authz.Rank(user.Role) < 1 {
		return models.RespondWithAppError(c, models.NewForbiddenError("Admin access required"))
	}
	p := parsePagination(c, 50)

	users, err := s.userRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// AdminSetUserStatus handles PATCH /api/admin/users/:id/status
// @Summary Ban or unban an account
// @Description Change an account's status. The actor must outrank the target.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body statusRequest true "New status: active or banned"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/status [patch]
func (s *Server) AdminSetUserStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusBanned {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be active or banned"))
	}

	target, err := s.userService.SetBanned(c.Context(), user, targetID, req.Status == models.UserStatusBanned)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(target)
}

// AdminSetUserRole handles PATCH /api/admin/users/:id/role
// @Summary Change an account's role
// @Description Grant or revoke the admin role. Maintainer only; the maintainer role itself is never assigned through the API.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body roleRequest true "New role: user or admin"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (s *Server) AdminSetUserRole(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	target, err := s.userService.SetRole(c.Context(), user, targetID, req.Role)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(target)
}

// AdminPinUser handles PATCH /api/admin/users/:id/pin
// @Summary Pin or unpin an account in the directory
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body flagRequest true "Pin state"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/pin [patch]
func (s *Server) AdminPinUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
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

	target, err := s.userService.SetPinned(c.Context(), user, targetID, req.Value)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(target)
}

// AdminSetUserLimits handles PATCH /api/admin/users/:id/limits
// @Summary Adjust an account's upload limits
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body service.QuotaInput true "New limits"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/limits [patch]
func (s *Server) AdminSetUserLimits(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.QuotaInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	target, err := s.userService.SetQuotas(c.Context(), user, targetID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(target)
}
