package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/rbac"
)

type RoleRepository interface {
	// Role CRUD
	Create(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Employee-Role assignments
	AssignToEmployee(ctx context.Context, employeeID, roleID uuid.UUID) error
	RemoveFromEmployee(ctx context.Context, employeeID, roleID uuid.UUID) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*domain.Role, error)

	// Permissions
	GetPermissions(ctx context.Context, roleID uuid.UUID) ([]rbac.PermissionRecord, error)
	SetPermissions(ctx context.Context, roleID uuid.UUID, records []rbac.PermissionRecord) error
	// GetEmployeePermissions folds the permissions of every role of the
	// employee into one record per feature.
	GetEmployeePermissions(ctx context.Context, employeeID uuid.UUID) ([]rbac.PermissionRecord, error)
}
