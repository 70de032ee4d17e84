package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

const adminColumns = `id, email, password_hash, name, status, created_at, updated_at, last_login_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES (:id, :email, :password_hash, :name, :status, :created_at, :updated_at, :last_login_at)`

	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return wrapErr("create admin", err)
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	var admin domain.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, wrapErr("get admin by id", err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE LOWER(email) = LOWER($1)`

	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, wrapErr("get admin by email", err)
	}
	return &admin, nil
}

// Exists reports whether any admin has been created yet
func (r *adminRepository) Exists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM admins)`); err != nil {
		return false, wrapErr("check admins", err)
	}
	return exists, nil
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return wrapErr("update admin last login", err)
	}
	return expectAffected("update admin last login", res)
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return wrapErr("update admin password", err)
	}
	return expectAffected("update admin password", res)
}
