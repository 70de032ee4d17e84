package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
	"github.com/andressep95/hr-service/pkg/rbac"
)

type RoleService struct {
	roleRepo     repository.RoleRepository
	employeeRepo repository.EmployeeRepository
	now          func() time.Time
}

type RoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type PermissionInput struct {
	FeatureKey string `json:"feature_key" validate:"required,max=100,feature_key"`
	CanView    bool   `json:"can_view"`
	CanCreate  bool   `json:"can_create"`
	CanEdit    bool   `json:"can_edit"`
	CanDelete  bool   `json:"can_delete"`
}

type SetPermissionsRequest struct {
	Permissions []PermissionInput `json:"permissions" validate:"dive"`
}

func NewRoleService(roleRepo repository.RoleRepository, employeeRepo repository.EmployeeRepository) *RoleService {
	return &RoleService{
		roleRepo:     roleRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

func (s *RoleService) List(ctx context.Context, companyID uuid.UUID) ([]*domain.Role, error) {
	return s.roleRepo.ListByCompany(ctx, companyID)
}

func (s *RoleService) Create(ctx context.Context, companyID uuid.UUID, req RoleRequest) (*domain.Role, error) {
	now := s.now()
	role := &domain.Role{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, translate("role", err)
	}
	return role, nil
}

// role loads a role and checks it belongs to companyID.
func (s *RoleService) role(ctx context.Context, companyID, roleID uuid.UUID) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, translate("role", err)
	}
	if role.CompanyID != companyID {
		return nil, fmt.Errorf("role %w", ErrNotFound)
	}
	return role, nil
}

func (s *RoleService) employee(ctx context.Context, companyID, employeeID uuid.UUID) (*domain.Employee, error) {
	e, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, translate("employee", err)
	}
	if e.CompanyID != companyID {
		return nil, fmt.Errorf("employee %w", ErrNotFound)
	}
	return e, nil
}

func (s *RoleService) Update(ctx context.Context, companyID, roleID uuid.UUID, req RoleRequest) (*domain.Role, error) {
	role, err := s.role(ctx, companyID, roleID)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Description = strings.TrimSpace(req.Description)
	role.UpdatedAt = s.now()

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, translate("role", err)
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, companyID, roleID uuid.UUID) error {
	if _, err := s.role(ctx, companyID, roleID); err != nil {
		return err
	}
	return translate("role", s.roleRepo.Delete(ctx, roleID))
}

func (s *RoleService) Permissions(ctx context.Context, companyID, roleID uuid.UUID) ([]rbac.PermissionRecord, error) {
	if _, err := s.role(ctx, companyID, roleID); err != nil {
		return nil, err
	}
	return s.roleRepo.GetPermissions(ctx, roleID)
}

// SetPermissions replaces the role's permission set. A feature listed twice
// is rejected.
func (s *RoleService) SetPermissions(ctx context.Context, companyID, roleID uuid.UUID, req SetPermissionsRequest) ([]rbac.PermissionRecord, error) {
	if _, err := s.role(ctx, companyID, roleID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Permissions))
	records := make([]rbac.PermissionRecord, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		if _, dup := seen[p.FeatureKey]; dup {
			return nil, fmt.Errorf("feature %q listed twice: %w", p.FeatureKey, ErrInvalidInput)
		}
		seen[p.FeatureKey] = struct{}{}

		records = append(records, rbac.PermissionRecord{
			FeatureKey: p.FeatureKey,
			CanView:    p.CanView,
			CanCreate:  p.CanCreate,
			CanEdit:    p.CanEdit,
			CanDelete:  p.CanDelete,
		})
	}

	if err := s.roleRepo.SetPermissions(ctx, roleID, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *RoleService) AssignToEmployee(ctx context.Context, companyID, employeeID, roleID uuid.UUID) error {
	if _, err := s.role(ctx, companyID, roleID); err != nil {
		return err
	}
	if _, err := s.employee(ctx, companyID, employeeID); err != nil {
		return err
	}
	return s.roleRepo.AssignToEmployee(ctx, employeeID, roleID)
}

func (s *RoleService) RemoveFromEmployee(ctx context.Context, companyID, employeeID, roleID uuid.UUID) error {
	if _, err := s.role(ctx, companyID, roleID); err != nil {
		return err
	}
	return translate("role assignment", s.roleRepo.RemoveFromEmployee(ctx, employeeID, roleID))
}

// EmployeeRoles lists the roles of an employee of companyID.
func (s *RoleService) EmployeeRoles(ctx context.Context, companyID, employeeID uuid.UUID) ([]*domain.Role, error) {
	if _, err := s.employee(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	return s.roleRepo.ListByEmployee(ctx, employeeID)
}

// EmployeePermissions returns one record per feature, each flag being the OR
// of that flag over the employee's roles.
func (s *RoleService) EmployeePermissions(ctx context.Context, companyID, employeeID uuid.UUID) ([]rbac.PermissionRecord, error) {
	if _, err := s.employee(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	return s.roleRepo.GetEmployeePermissions(ctx, employeeID)
}

// Evaluate applies the capability rule to the caller: a company holds every
// capability within itself, an employee holds what its roles grant, anyone
// else holds nothing.
func (s *RoleService) Evaluate(ctx context.Context, claims *domain.Claims, featureKey string, action rbac.Action) (bool, error) {
	switch claims.ActorClass {
	case domain.ActorCompany:
		return true, nil
	case domain.ActorEmployee:
		records, err := s.roleRepo.GetEmployeePermissions(ctx, claims.ActorID)
		if err != nil {
			return false, err
		}
		return rbac.Allows(records, featureKey, action), nil
	default:
		return false, nil
	}
}
