package server

import (
	"lantern/internal/models"
	"lantern/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicUsers handles GET /api/users/public/list
// @Summary List users
// @Description List the public user directory, pinned accounts first.
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.User
// @Router /users/public/list [get]
func (s *Server) GetPublicUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.Directory(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetPublicProfile handles GET /api/users/public/profile/:username
// @Summary Get a public profile
// @Description Fetch a user's profile with follower counts. When authenticated, includes whether the viewer follows them.
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} service.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/public/profile/{username} [get]
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	target, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	viewer := s.optionalUser(c)

	profile, err := s.userService.GetProfile(c.Context(), target.ID, viewer)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile data"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	var input service.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.userService.UpdateProfile(c.Context(), user.ID, input)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(updated)
}

// GetMyLimits handles GET /api/users/me/limits
// @Summary Get my upload limits
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/me/limits [get]
func (s *Server) GetMyLimits(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	return c.JSON(fiber.Map{
		"max_upload_size_bytes": user.MaxUploadSizeBytes,
		"storage_quota_bytes":   user.StorageQuotaBytes,
		"used_storage_bytes":    user.UsedStorageBytes,
	})
}

// GetFollowing handles GET /api/users/:username/following
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.Follow
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	target, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	p := parsePagination(c, 20)

	follows, err := s.userService.ListFollowing(c.Context(), target.ID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(follows)
}

// GetFollowers handles GET /api/users/:username/followers
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} models.Follow
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	target, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	p := parsePagination(c, 20)

	follows, err := s.userService.ListFollowers(c.Context(), target.ID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(follows)
}

// GetFollowStatus handles GET /api/users/:id/follow-status
// @Summary Check whether I follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/follow-status [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), targetID, user)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"is_following": profile.IsFollowing})
}

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.userService.Follow(c.Context(), user, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Following"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}

	if err := s.userService.Unfollow(c.Context(), user.ID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// ExportUser handles GET /api/users/export/:username
// @Summary Export a user's data
// @Description Bundle the user's diaries, collections and collaboration requests. Available to the user themselves and the maintainer.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} service.UserExport
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/export/{username} [get]
func (s *Server) ExportUser(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	target, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if target.ID != user.ID && user.Role != models.RoleMaintainer {
		return models.RespondWithAppError(c,
			models.NewForbiddenError("You can only export your own data"))
	}

	export, err := s.userService.Export(c.Context(), target.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(export)
}
