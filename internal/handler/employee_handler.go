package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

// EmployeeHandler serves the staff directory. Routes are reachable by
// company and employee tokens; capabilities are checked by middleware and
// the company scope comes from the token.
type EmployeeHandler struct {
	employeeService *service.EmployeeService
	validator       *validator.Validator
}

func NewEmployeeHandler(employeeService *service.EmployeeService, validator *validator.Validator) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		validator:       validator,
	}
}

// List GET /api/v1/employees?search=&department=&status=&limit=&offset=
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	filter := domain.EmployeeFilter{
		CompanyID:  claimsFrom(c).CompanyID,
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Status:     domain.EmployeeStatus(c.Query("status")),
		Limit:      c.QueryInt("limit", 20),
		Offset:     c.QueryInt("offset", 0),
	}

	page, err := h.employeeService.List(c.UserContext(), filter)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, page)
}

// Create POST /api/v1/employees
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var req service.CreateEmployeeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	e, err := h.employeeService.Create(c.UserContext(), claimsFrom(c).CompanyID, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusCreated, e)
}

// Get GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	e, err := h.employeeService.Get(c.UserContext(), claimsFrom(c).CompanyID, id)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, e)
}

// Update PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req service.UpdateEmployeeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	e, err := h.employeeService.Update(c.UserContext(), claimsFrom(c).CompanyID, id, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, e)
}

// Delete DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.employeeService.Delete(c.UserContext(), claimsFrom(c).CompanyID, id); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "employee deleted"})
}

// Salary GET /api/v1/employees/:id/salary
func (h *EmployeeHandler) Salary(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	salary, err := h.employeeService.Salary(c.UserContext(), claimsFrom(c).CompanyID, id)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, salary)
}
