package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, int, error)
	ListIDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error)

	// Login bookkeeping
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	RegisterFailedLogin(ctx context.Context, id uuid.UUID, maxFailed int, lockFor time.Duration) error
}
