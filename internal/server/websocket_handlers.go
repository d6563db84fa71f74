package server

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"lantern/internal/middleware"
	"lantern/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const wsTicketTTL = 30 * time.Second

// IssueWSTicket handles POST /api/ws/ticket
// @Summary Issue a WebSocket ticket
// @Description Issue a short-lived single-use ticket for opening the notification socket without putting the JWT in a URL.
// @Tags websocket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} models.ErrorResponse
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return nil
	}
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	ticket := uuid.NewString()
	key := "ws_ticket:" + ticket
	if err := s.redis.Set(c.Context(), key, strconv.FormatUint(uint64(user.ID), 10), wsTicketTTL).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("set").Inc()
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WSAuth authenticates the WebSocket upgrade request. A single-use ticket is
// preferred; a JWT in the query or header is accepted as a fallback.
func (s *Server) WSAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	ticket := c.Query("ticket")
	if ticket != "" && s.redis != nil {
		key := "ws_ticket:" + ticket
		userIDStr, err := s.redis.Get(c.Context(), key).Result()
		if err == nil {
			// Redeem immediately so the ticket cannot be replayed
			s.redis.Del(c.Context(), key)
			if userID, parseErr := strconv.ParseUint(userIDStr, 10, 32); parseErr == nil {
				c.Locals("userID", uint(userID))
				return c.Next()
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired WebSocket ticket",
		})
	}

	return middleware.WebSocketAuthRequired(c)
}

// WebsocketHandler returns the notification socket handler. The socket is
// one-way: the server pushes notification payloads, the client only keeps the
// connection alive.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()

		// Read pump runs in the handler goroutine and returns when the
		// connection closes
		client.ReadPump()
	})
}
