package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/logger"
	"github.com/andressep95/hr-service/pkg/validator"
)

// ClaimsKey is the fiber.Locals key under which the auth middleware stores
// the caller's claims.
const ClaimsKey = "claims"

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// handleError maps service errors onto HTTP responses. Anything unknown is
// logged and reported as a 500 without details.
func handleError(c *fiber.Ctx, err error) error {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": verr.Error(),
			"errors":  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidSetupToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountLocked):
		return fail(c, fiber.StatusLocked, err.Error())
	case errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrSetupCompleted):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Access Denied")
	case errors.Is(err, service.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrQuotaExceeded):
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	logger.FromContext(c.UserContext()).ErrorContext(c.UserContext(), "request failed", "error", err)
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}

// bind parses the JSON body into req and validates it. The returned error
// is meant for handleError.
func bind(c *fiber.Ctx, v *validator.Validator, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("invalid request body: %w", service.ErrInvalidInput)
	}
	return v.Validate(req)
}

func claimsFrom(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(ClaimsKey).(*domain.Claims)
	return claims
}

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, service.ErrInvalidInput)
	}
	return id, nil
}
