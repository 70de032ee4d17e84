package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/rbac"
)

type roleFixture struct {
	st       *store
	svc      *RoleService
	company  uuid.UUID
	employee uuid.UUID
}

func newRoleFixture(t *testing.T) *roleFixture {
	t.Helper()

	st := newStore()
	company := uuid.New()
	employee := uuid.New()
	require.NoError(t, employeeRepo{st}.Create(context.Background(), &domain.Employee{
		ID:        employee,
		CompanyID: company,
		Email:     "jane@acme.test",
	}))

	return &roleFixture{
		st:       st,
		svc:      NewRoleService(roleRepo{st}, employeeRepo{st}),
		company:  company,
		employee: employee,
	}
}

func (f *roleFixture) role(t *testing.T, name string, perms ...PermissionInput) *domain.Role {
	t.Helper()

	ctx := context.Background()
	role, err := f.svc.Create(ctx, f.company, RoleRequest{Name: name})
	require.NoError(t, err)
	_, err = f.svc.SetPermissions(ctx, f.company, role.ID, SetPermissionsRequest{Permissions: perms})
	require.NoError(t, err)
	return role
}

func TestRoleService_SetPermissionsRejectsDuplicates(t *testing.T) {
	t.Parallel()

	f := newRoleFixture(t)
	role := f.role(t, "Viewer")

	_, err := f.svc.SetPermissions(context.Background(), f.company, role.ID, SetPermissionsRequest{
		Permissions: []PermissionInput{
			{FeatureKey: domain.FeatureEmployees, CanView: true},
			{FeatureKey: domain.FeatureEmployees, CanEdit: true},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoleService_EmployeePermissionsAreUnion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRoleFixture(t)
	viewer := f.role(t, "Viewer", PermissionInput{FeatureKey: domain.FeatureEmployees, CanView: true})
	editor := f.role(t, "Editor",
		PermissionInput{FeatureKey: domain.FeatureEmployees, CanEdit: true},
		PermissionInput{FeatureKey: domain.FeatureSalary, CanView: true},
	)

	require.NoError(t, f.svc.AssignToEmployee(ctx, f.company, f.employee, viewer.ID))
	require.NoError(t, f.svc.AssignToEmployee(ctx, f.company, f.employee, editor.ID))

	roles, err := f.svc.EmployeeRoles(ctx, f.company, f.employee)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	records, err := f.svc.EmployeePermissions(ctx, f.company, f.employee)
	require.NoError(t, err)
	require.True(t, rbac.Allows(records, domain.FeatureEmployees, rbac.ActionView))
	require.True(t, rbac.Allows(records, domain.FeatureEmployees, rbac.ActionEdit))
	require.False(t, rbac.Allows(records, domain.FeatureEmployees, rbac.ActionDelete))
	require.True(t, rbac.Allows(records, domain.FeatureSalary, rbac.ActionView))

	require.NoError(t, f.svc.RemoveFromEmployee(ctx, f.company, f.employee, editor.ID))
	records, err = f.svc.EmployeePermissions(ctx, f.company, f.employee)
	require.NoError(t, err)
	require.False(t, rbac.Allows(records, domain.FeatureSalary, rbac.ActionView))

	require.ErrorIs(t, f.svc.RemoveFromEmployee(ctx, f.company, f.employee, editor.ID), ErrNotFound)
}

func TestRoleService_ScopedToCompany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRoleFixture(t)
	role := f.role(t, "Viewer")
	other := uuid.New()

	_, err := f.svc.Permissions(ctx, other, role.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, f.svc.AssignToEmployee(ctx, other, f.employee, role.ID), ErrNotFound)
	_, err = f.svc.EmployeePermissions(ctx, other, f.employee)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, other, role.ID), ErrNotFound)

	roles, err := f.svc.List(ctx, other)
	require.NoError(t, err)
	require.Empty(t, roles)

	updated, err := f.svc.Update(ctx, f.company, role.ID, RoleRequest{Name: "Reader"})
	require.NoError(t, err)
	require.Equal(t, "Reader", updated.Name)
	require.NoError(t, f.svc.Delete(ctx, f.company, role.ID))
}

func TestRoleService_Evaluate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newRoleFixture(t)
	viewer := f.role(t, "Viewer", PermissionInput{FeatureKey: domain.FeatureSalary, CanView: true})
	require.NoError(t, f.svc.AssignToEmployee(ctx, f.company, f.employee, viewer.ID))

	tests := []struct {
		name    string
		claims  *domain.Claims
		feature string
		action  rbac.Action
		want    bool
	}{
		{"company holds everything", &domain.Claims{ActorClass: domain.ActorCompany, ActorID: f.company}, "anything", rbac.ActionDelete, true},
		{"employee granted", &domain.Claims{ActorClass: domain.ActorEmployee, ActorID: f.employee}, domain.FeatureSalary, rbac.ActionView, true},
		{"employee missing action", &domain.Claims{ActorClass: domain.ActorEmployee, ActorID: f.employee}, domain.FeatureSalary, rbac.ActionEdit, false},
		{"employee without roles", &domain.Claims{ActorClass: domain.ActorEmployee, ActorID: uuid.New()}, domain.FeatureSalary, rbac.ActionView, false},
		{"admin holds nothing", &domain.Claims{ActorClass: domain.ActorAdmin, ActorID: uuid.New()}, domain.FeatureEmployees, rbac.ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Evaluate(ctx, tt.claims, tt.feature, tt.action)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
