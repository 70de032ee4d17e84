package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/validator"
)

type RoleHandler struct {
	roleService *service.RoleService
	validator   *validator.Validator
}

func NewRoleHandler(roleService *service.RoleService, validator *validator.Validator) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		validator:   validator,
	}
}

// List GET /api/v1/company/roles
func (h *RoleHandler) List(c *fiber.Ctx) error {
	roles, err := h.roleService.List(c.UserContext(), claimsFrom(c).ActorID)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, roles)
}

// Create POST /api/v1/company/roles
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req service.RoleRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.Create(c.UserContext(), claimsFrom(c).ActorID, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusCreated, role)
}

// Update PUT /api/v1/company/roles/:id
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	roleID, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req service.RoleRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.Update(c.UserContext(), claimsFrom(c).ActorID, roleID, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, role)
}

// Delete DELETE /api/v1/company/roles/:id
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	roleID, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.roleService.Delete(c.UserContext(), claimsFrom(c).ActorID, roleID); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "role deleted"})
}

// Permissions GET /api/v1/company/roles/:id/permissions
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	roleID, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.roleService.Permissions(c.UserContext(), claimsFrom(c).ActorID, roleID)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, records)
}

// SetPermissions replaces the permission set of a role.
// PUT /api/v1/company/roles/:id/permissions
func (h *RoleHandler) SetPermissions(c *fiber.Ctx) error {
	roleID, err := uuidParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	var req service.SetPermissionsRequest
	if err := bind(c, h.validator, &req); err != nil {
		return handleError(c, err)
	}

	records, err := h.roleService.SetPermissions(c.UserContext(), claimsFrom(c).ActorID, roleID, req)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, records)
}

func (h *RoleHandler) assignmentParams(c *fiber.Ctx) (employeeID, roleID uuid.UUID, err error) {
	if employeeID, err = uuidParam(c, "id"); err != nil {
		return
	}
	roleID, err = uuidParam(c, "roleId")
	return
}

// Assign POST /api/v1/company/employees/:id/roles/:roleId
func (h *RoleHandler) Assign(c *fiber.Ctx) error {
	employeeID, roleID, err := h.assignmentParams(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.roleService.AssignToEmployee(c.UserContext(), claimsFrom(c).ActorID, employeeID, roleID); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "role assigned"})
}

// Remove DELETE /api/v1/company/employees/:id/roles/:roleId
func (h *RoleHandler) Remove(c *fiber.Ctx) error {
	employeeID, roleID, err := h.assignmentParams(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.roleService.RemoveFromEmployee(c.UserContext(), claimsFrom(c).ActorID, employeeID, roleID); err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, fiber.Map{"message": "role removed"})
}

// employeeTarget resolves /employees/:id for the roles and permissions
// endpoints: an employee may only ask about itself, a company about its own
// staff.
func employeeTarget(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuidParam(c, "id")
	if err != nil {
		return uuid.Nil, err
	}

	claims := claimsFrom(c)
	if claims.ActorClass == domain.ActorEmployee && claims.ActorID != id {
		return uuid.Nil, service.ErrForbidden
	}
	return id, nil
}

// EmployeeRoles GET /api/v1/employees/:id/roles
func (h *RoleHandler) EmployeeRoles(c *fiber.Ctx) error {
	id, err := employeeTarget(c)
	if err != nil {
		return handleError(c, err)
	}

	roles, err := h.roleService.EmployeeRoles(c.UserContext(), claimsFrom(c).CompanyID, id)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, roles)
}

// EmployeePermissions returns the aggregated permission records of an
// employee, one per feature.
// GET /api/v1/employees/:id/permissions
func (h *RoleHandler) EmployeePermissions(c *fiber.Ctx) error {
	id, err := employeeTarget(c)
	if err != nil {
		return handleError(c, err)
	}

	records, err := h.roleService.EmployeePermissions(c.UserContext(), claimsFrom(c).CompanyID, id)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, fiber.StatusOK, records)
}
