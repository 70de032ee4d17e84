package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List returns the caller's live sessions.
// GET /api/v1/sessions/me
func (h *SessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.sessionService.List(c.UserContext(), claimsFrom(c))
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, sessions)
}

// Revoke ends another session of the caller.
// DELETE /api/v1/sessions/me/:id
func (h *SessionHandler) Revoke(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.sessionService.Revoke(c.UserContext(), claimsFrom(c), id); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "session revoked"})
}
