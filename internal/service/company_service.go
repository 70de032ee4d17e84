package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

type CompanyService struct {
	companyRepo  repository.CompanyRepository
	employeeRepo repository.EmployeeRepository
	hasher       PasswordHasher
	sessions     SessionTerminator
	now          func() time.Time
}

type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Slug         string `json:"slug" validate:"required,min=2,max=100,slug"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	MaxEmployees int    `json:"max_employees" validate:"gte=0"`
}

// UpdateCompanyRequest only touches the fields that are set.
type UpdateCompanyRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=255"`
	Status       *string `json:"status" validate:"omitempty,oneof=active suspended"`
	MaxEmployees *int    `json:"max_employees" validate:"omitempty,gte=0"`
}

type CompanyPage struct {
	Companies []*domain.Company `json:"companies"`
	Total     int               `json:"total"`
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	hasher PasswordHasher,
	sessions SessionTerminator,
) *CompanyService {
	return &CompanyService{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		hasher:       hasher,
		sessions:     sessions,
		now:          time.Now,
	}
}

func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*domain.Company, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	company := &domain.Company{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Slug:         req.Slug,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		Status:       domain.CompanyStatusActive,
		MaxEmployees: req.MaxEmployees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, translate("company", err)
	}

	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("company", err)
	}
	return company, nil
}

func (s *CompanyService) List(ctx context.Context, limit, offset int) (*CompanyPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	companies, total, err := s.companyRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &CompanyPage{Companies: companies, Total: total}, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("company", err)
	}

	wasActive := company.Status == domain.CompanyStatusActive

	if req.Name != nil {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		company.Status = domain.CompanyStatus(*req.Status)
	}
	if req.MaxEmployees != nil {
		company.MaxEmployees = *req.MaxEmployees
	}
	company.UpdatedAt = s.now()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, translate("company", err)
	}

	if wasActive && company.Status != domain.CompanyStatusActive {
		staff, err := s.employeeRepo.ListIDsByCompany(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.endSessions(ctx, id, staff); err != nil {
			return nil, err
		}
	}

	return company, nil
}

// UpdateProfile lets a company rename itself.
func (s *CompanyService) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*domain.Profile, error) {
	company, err := s.Update(ctx, id, UpdateCompanyRequest{Name: &name})
	if err != nil {
		return nil, err
	}

	p := company.Profile()
	return &p, nil
}

// Delete removes the company and ends the sessions of the company and of
// every employee it had.
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	staff, err := s.employeeRepo.ListIDsByCompany(ctx, id)
	if err != nil {
		return err
	}

	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return translate("company", err)
	}

	return s.endSessions(ctx, id, staff)
}

func (s *CompanyService) endSessions(ctx context.Context, companyID uuid.UUID, staff []uuid.UUID) error {
	if err := s.sessions.EndAllSessions(ctx, domain.ActorCompany, companyID); err != nil {
		return fmt.Errorf("end company sessions: %w", err)
	}
	for _, employeeID := range staff {
		if err := s.sessions.EndAllSessions(ctx, domain.ActorEmployee, employeeID); err != nil {
			return fmt.Errorf("end employee sessions: %w", err)
		}
	}
	return nil
}
