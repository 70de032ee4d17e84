package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type employeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new PostgreSQL employee repository
func NewEmployeeRepository(db *sqlx.DB) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

var employeeColumns = []string{
	"id", "company_id", "email", "password_hash", "first_name", "last_name",
	"department", "designation", "salary", "status", "failed_logins", "locked_until",
	"created_at", "updated_at", "last_login_at",
}

func selectEmployees() sq.SelectBuilder {
	return sq.Select(employeeColumns...).From("employees").PlaceholderFormat(sq.Dollar)
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (
			id, company_id, email, password_hash, first_name, last_name,
			department, designation, salary, status, failed_logins, locked_until,
			created_at, updated_at, last_login_at
		) VALUES (
			:id, :company_id, :email, :password_hash, :first_name, :last_name,
			:department, :designation, :salary, :status, :failed_logins, :locked_until,
			:created_at, :updated_at, :last_login_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return wrapErr("create employee", err)
	}
	return nil
}

func (r *employeeRepository) getOne(ctx context.Context, op string, where sq.Sqlizer) (*domain.Employee, error) {
	query, args, err := selectEmployees().Where(where).ToSql()
	if err != nil {
		return nil, wrapErr(op, err)
	}

	var employee domain.Employee
	if err := r.db.GetContext(ctx, &employee, query, args...); err != nil {
		return nil, wrapErr(op, err)
	}
	return &employee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return r.getOne(ctx, "get employee by id", sq.Eq{"id": id})
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.getOne(ctx, "get employee by email", sq.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET email = :email,
			first_name = :first_name,
			last_name = :last_name,
			department = :department,
			designation = :designation,
			salary = :salary,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, employee)
	if err != nil {
		return wrapErr("update employee", err)
	}
	return expectAffected("update employee", res)
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return wrapErr("update employee password", err)
	}
	return expectAffected("update employee password", res)
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete employee", err)
	}
	return expectAffected("delete employee", res)
}

func (r *employeeRepository) ListIDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM employees WHERE company_id = $1`, companyID); err != nil {
		return nil, wrapErr("list employee ids", err)
	}
	return ids, nil
}

// List returns one page of the company's employees matching filter, plus the
// number of matches across all pages.
func (r *employeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, int, error) {
	countQuery, args, err := applyEmployeeFilter(
		sq.Select("COUNT(*)").From("employees").PlaceholderFormat(sq.Dollar), filter,
	).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build employee count", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, wrapErr("count employees", err)
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query, args, err := applyEmployeeFilter(selectEmployees(), filter).
		OrderBy("last_name", "first_name", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, wrapErr("build employee list", err)
	}

	employees := []*domain.Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, wrapErr("list employees", err)
	}

	return employees, total, nil
}

func applyEmployeeFilter(stmt sq.SelectBuilder, filter domain.EmployeeFilter) sq.SelectBuilder {
	stmt = stmt.Where(sq.Eq{"company_id": filter.CompanyID})

	if filter.Department != "" {
		stmt = stmt.Where(sq.Eq{"department": filter.Department})
	}

	if filter.Status != "" {
		stmt = stmt.Where(sq.Eq{"status": filter.Status})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where(sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
			sq.ILike{"email": pattern},
		})
	}

	return stmt
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// UpdateLastLogin also clears the failed login counter and any lock.
func (r *employeeRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET last_login_at = NOW(), failed_logins = 0, locked_until = NULL
		WHERE id = $1`, id)
	if err != nil {
		return wrapErr("update employee last login", err)
	}
	return expectAffected("update employee last login", res)
}

// RegisterFailedLogin counts a failed attempt and locks the account for
// lockFor once maxFailed consecutive failures are reached.
func (r *employeeRepository) RegisterFailedLogin(ctx context.Context, id uuid.UUID, maxFailed int, lockFor time.Duration) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET failed_logins = failed_logins + 1,
			locked_until = CASE
				WHEN failed_logins + 1 >= $2 THEN NOW() + make_interval(secs => $3)
				ELSE locked_until
			END
		WHERE id = $1`, id, maxFailed, lockFor.Seconds())
	if err != nil {
		return wrapErr("register failed login", err)
	}
	return expectAffected("register failed login", res)
}
