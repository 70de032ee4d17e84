package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

type companyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new PostgreSQL company repository
func NewCompanyRepository(db *sqlx.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, name, slug, email, password_hash, status, max_employees,
	created_at, updated_at, last_login_at`

func (r *companyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES (
			:id, :name, :slug, :email, :password_hash, :status, :max_employees,
			:created_at, :updated_at, :last_login_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, company); err != nil {
		return wrapErr("create company", err)
	}
	return nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		return nil, wrapErr("get company by id", err)
	}
	return &company, nil
}

func (r *companyRepository) GetByEmail(ctx context.Context, email string) (*domain.Company, error) {
	var company domain.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE LOWER(email) = LOWER($1)`

	if err := r.db.GetContext(ctx, &company, query, email); err != nil {
		return nil, wrapErr("get company by email", err)
	}
	return &company, nil
}

func (r *companyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	var company domain.Company
	query := `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1`

	if err := r.db.GetContext(ctx, &company, query, slug); err != nil {
		return nil, wrapErr("get company by slug", err)
	}
	return &company, nil
}

func (r *companyRepository) Update(ctx context.Context, company *domain.Company) error {
	query := `
		UPDATE companies
		SET name = :name,
			slug = :slug,
			email = :email,
			password_hash = :password_hash,
			status = :status,
			max_employees = :max_employees,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, company)
	if err != nil {
		return wrapErr("update company", err)
	}
	return expectAffected("update company", res)
}

func (r *companyRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return wrapErr("update company password", err)
	}
	return expectAffected("update company password", res)
}

func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete company", err)
	}
	return expectAffected("delete company", res)
}

// List returns a page of companies and the total count
func (r *companyRepository) List(ctx context.Context, limit, offset int) ([]*domain.Company, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM companies`); err != nil {
		return nil, 0, wrapErr("count companies", err)
	}

	companies := []*domain.Company{}
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &companies, query, limit, offset); err != nil {
		return nil, 0, wrapErr("list companies", err)
	}

	return companies, total, nil
}

func (r *companyRepository) CountEmployees(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employees WHERE company_id = $1`, id); err != nil {
		return 0, wrapErr("count employees", err)
	}
	return count, nil
}

func (r *companyRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE companies SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return wrapErr("update company last login", err)
	}
	return expectAffected("update company last login", res)
}
