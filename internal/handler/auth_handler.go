package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

// AuthHandler serves login, logout and profile endpoints for every actor
// class. Each route is bound to one class.
type AuthHandler struct {
	authService    *service.AuthService
	companyService *service.CompanyService
	validator      *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, companyService *service.CompanyService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		companyService: companyService,
		validator:      validator,
	}
}

// Login returns the login handler of class.
// POST /api/v1/{admin,company,employee}/login
func (h *AuthHandler) Login(class domain.ActorClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.LoginRequest
		if err := bind(c, h.validator, &req); err != nil {
			return handleError(c, err)
		}

		meta := service.ClientMeta{
			UserAgent: c.Get(fiber.HeaderUserAgent),
			IP:        c.IP(),
		}

		res, err := h.authService.Login(c.UserContext(), class, req, meta)
		if err != nil {
			return handleError(c, err)
		}

		return success(c, fiber.StatusOK, res)
	}
}

// Logout ends the session of the presented token.
// POST /api/v1/{admin,company,employee}/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), claimsFrom(c)); err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusOK, fiber.Map{"message": "logged out"})
}

// Profile returns the caller's profile.
// GET /api/v1/{admin,company,employee}/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := claimsFrom(c)

	p, err := h.authService.Profile(c.UserContext(), claims.ActorClass, claims.ActorID)
	if err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusOK, p)
}

type updateCompanyProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// UpdateCompanyProfile renames the calling company.
// PUT /api/v1/company/profile
func (h *AuthHandler) UpdateCompanyProfile(c *fiber.Ctx) error {
	var req updateCompanyProfileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	p, err := h.companyService.UpdateProfile(c.UserContext(), claimsFrom(c).ActorID, req.Name)
	if err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusOK, p)
}

// UpdateEmployeeProfile edits the calling employee's name.
// PUT /api/v1/employee/profile
func (h *AuthHandler) UpdateEmployeeProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	p, err := h.authService.UpdateEmployeeProfile(c.UserContext(), claimsFrom(c).ActorID, req)
	if err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusOK, p)
}

// ChangePassword replaces the employee's password. Every session of the
// employee ends, the current one included.
// PUT /api/v1/employee/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req service.ChangePasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	if req.OldPassword == req.NewPassword {
		return fail(c, fiber.StatusBadRequest, "new password must be different from old password")
	}

	if err := h.authService.ChangeEmployeePassword(c.UserContext(), claimsFrom(c).ActorID, req); err != nil {
		return handleError(c, err)
	}

	return success(c, fiber.StatusOK, fiber.Map{"message": "password changed, please sign in again"})
}
