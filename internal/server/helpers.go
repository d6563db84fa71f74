package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "diaryId" -> "diary ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUser loads the authenticated user from the userID local set by the
// auth middleware. Banned accounts are rejected here so every protected
// handler enforces the ban uniformly. On failure it writes the response and
// returns errResponseWritten.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	uid, ok := c.Locals("userID").(uint)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return nil, errResponseWritten
	}

	user, err := s.userService.GetByID(c.Context(), uid)
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return nil, errResponseWritten
	}
	if user.IsBanned() {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Account is banned"))
		return nil, errResponseWritten
	}
	return user, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// optionalUser loads the user when the request carries a valid token and nil
// otherwise. A banned account browses as anonymous.
func (s *Server) optionalUser(c *fiber.Ctx) *models.User {
	uid, ok := c.Locals("userID").(uint)
	if !ok {
		return nil
	}
	user, err := s.userService.GetByID(c.Context(), uid)
	if err != nil || user.IsBanned() {
		return nil
	}
	return user
}
