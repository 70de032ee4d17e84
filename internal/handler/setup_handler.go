package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

// SetupTokenHeader carries the one-time setup token.
const SetupTokenHeader = "X-Setup-Token"

type SetupHandler struct {
	setupService *service.SetupService
	validator    *validator.Validator
}

func NewSetupHandler(setupService *service.SetupService, validator *validator.Validator) *SetupHandler {
	return &SetupHandler{
		setupService: setupService,
		validator:    validator,
	}
}

// CreateAdmin creates the first platform admin. It only works while no admin
// exists.
// POST /api/v1/setup/admin
func (h *SetupHandler) CreateAdmin(c *fiber.Ctx) error {
	var req service.CreateAdminRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	admin, err := h.setupService.CreateFirstAdmin(c.UserContext(), c.Get(SetupTokenHeader), req)
	if err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusCreated, admin.Profile())
}
