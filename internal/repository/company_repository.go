package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	GetByEmail(ctx context.Context, email string) (*domain.Company, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
	Update(ctx context.Context, company *domain.Company) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*domain.Company, int, error)
	CountEmployees(ctx context.Context, id uuid.UUID) (int, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
