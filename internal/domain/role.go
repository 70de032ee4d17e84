package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/pkg/rbac"
)

// Feature keys checked by the server.
const (
	FeatureEmployees = "employees"
	FeatureSalary    = "salary_view"
	FeatureRoles     = "roles"
)

// Role groups permissions inside one company
type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CompanyID   uuid.UUID `json:"company_id" db:"company_id"`
	Name        string    `json:"name" db:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description" db:"description" validate:"max=500"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RolePermission grants CRUD flags on one feature to a role.
type RolePermission struct {
	RoleID uuid.UUID `json:"role_id" db:"role_id"`
	rbac.PermissionRecord
}
