package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
	"github.com/andressep95/hr-service/pkg/rbac"
)

type RoleRepository struct {
	db *sqlx.DB
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

const roleColumns = `id, company_id, name, description, created_at, updated_at`

// Create creates a new role
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	query := `
		INSERT INTO roles (` + roleColumns + `)
		VALUES (:id, :company_id, :name, :description, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return wrapErr("create role", err)
	}
	return nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	var role domain.Role
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`

	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, wrapErr("get role", err)
	}
	return &role, nil
}

func (r *RoleRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Role, error) {
	roles := []*domain.Role{}
	query := `SELECT ` + roleColumns + ` FROM roles WHERE company_id = $1 ORDER BY name`

	if err := r.db.SelectContext(ctx, &roles, query, companyID); err != nil {
		return nil, wrapErr("list roles", err)
	}
	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	query := `
		UPDATE roles
		SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, role)
	if err != nil {
		return wrapErr("update role", err)
	}
	return expectAffected("update role", res)
}

func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete role", err)
	}
	return expectAffected("delete role", res)
}

// AssignToEmployee is idempotent
func (r *RoleRepository) AssignToEmployee(ctx context.Context, employeeID, roleID uuid.UUID) error {
	query := `
		INSERT INTO employee_roles (employee_id, role_id, assigned_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (employee_id, role_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, employeeID, roleID); err != nil {
		return wrapErr("assign role to employee", err)
	}
	return nil
}

func (r *RoleRepository) RemoveFromEmployee(ctx context.Context, employeeID, roleID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM employee_roles WHERE employee_id = $1 AND role_id = $2`, employeeID, roleID)
	if err != nil {
		return wrapErr("remove role from employee", err)
	}
	return expectAffected("remove role from employee", res)
}

func (r *RoleRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*domain.Role, error) {
	roles := []*domain.Role{}
	query := `
		SELECT r.id, r.company_id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		INNER JOIN employee_roles er ON r.id = er.role_id
		WHERE er.employee_id = $1
		ORDER BY r.name
	`
	if err := r.db.SelectContext(ctx, &roles, query, employeeID); err != nil {
		return nil, wrapErr("list employee roles", err)
	}
	return roles, nil
}

func (r *RoleRepository) GetPermissions(ctx context.Context, roleID uuid.UUID) ([]rbac.PermissionRecord, error) {
	records := []rbac.PermissionRecord{}
	query := `
		SELECT feature_key, can_view, can_create, can_edit, can_delete
		FROM role_permissions
		WHERE role_id = $1
		ORDER BY feature_key
	`
	if err := r.db.SelectContext(ctx, &records, query, roleID); err != nil {
		return nil, wrapErr("get role permissions", err)
	}
	return records, nil
}

// SetPermissions replaces every permission of the role in one transaction.
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID uuid.UUID, records []rbac.PermissionRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return wrapErr("clear role permissions", err)
	}

	if len(records) > 0 {
		rows := make([]domain.RolePermission, 0, len(records))
		for _, rec := range records {
			rows = append(rows, domain.RolePermission{RoleID: roleID, PermissionRecord: rec})
		}

		query := `
			INSERT INTO role_permissions (role_id, feature_key, can_view, can_create, can_edit, can_delete)
			VALUES (:role_id, :feature_key, :can_view, :can_create, :can_edit, :can_delete)
		`
		if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
			return wrapErr("insert role permissions", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit role permissions: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetEmployeePermissions(ctx context.Context, employeeID uuid.UUID) ([]rbac.PermissionRecord, error) {
	records := []rbac.PermissionRecord{}
	query := `
		SELECT rp.feature_key,
			   BOOL_OR(rp.can_view)   AS can_view,
			   BOOL_OR(rp.can_create) AS can_create,
			   BOOL_OR(rp.can_edit)   AS can_edit,
			   BOOL_OR(rp.can_delete) AS can_delete
		FROM role_permissions rp
		INNER JOIN employee_roles er ON rp.role_id = er.role_id
		WHERE er.employee_id = $1
		GROUP BY rp.feature_key
		ORDER BY rp.feature_key
	`
	if err := r.db.SelectContext(ctx, &records, query, employeeID); err != nil {
		return nil, wrapErr("get employee permissions", err)
	}
	return records, nil
}
