package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

// CompanyHandler is the platform admin's view of companies.
type CompanyHandler struct {
	companyService *service.CompanyService
	validator      *validator.Validator
}

func NewCompanyHandler(companyService *service.CompanyService, validator *validator.Validator) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		validator:      validator,
	}
}

// List GET /api/v1/admin/companies?limit=&offset=
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page, err := h.companyService.List(c.UserContext(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, page)
}

// Create POST /api/v1/admin/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req service.CreateCompanyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	company, err := h.companyService.Create(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusCreated, company)
}

// Get GET /api/v1/admin/companies/:id
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	company, err := h.companyService.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, company)
}

// Update PUT /api/v1/admin/companies/:id
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req service.UpdateCompanyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	company, err := h.companyService.Update(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, company)
}

// Delete DELETE /api/v1/admin/companies/:id
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.companyService.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "company deleted"})
}
