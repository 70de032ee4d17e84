package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

// EmployeeService manages the staff of one company at a time. Every method
// takes the company the caller acts for; employees of other companies are
// reported as not found.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	hasher       PasswordHasher
	sessions     SessionTerminator
	now          func() time.Time
}

type CreateEmployeeRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,min=2,max=100"`
	Department  string `json:"department" validate:"max=100"`
	Designation string `json:"designation" validate:"max=100"`
	Salary      string `json:"salary" validate:"omitempty,decimal"`
}

type UpdateEmployeeRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Department  *string `json:"department" validate:"omitempty,max=100"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Salary      *string `json:"salary" validate:"omitempty,decimal"`
}

type EmployeePage struct {
	Employees []*domain.Employee `json:"employees"`
	Total     int                `json:"total"`
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
	hasher PasswordHasher,
	sessions SessionTerminator,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		hasher:       hasher,
		sessions:     sessions,
		now:          time.Now,
	}
}

func (s *EmployeeService) List(ctx context.Context, filter domain.EmployeeFilter) (*EmployeePage, error) {
	if filter.CompanyID == uuid.Nil {
		return nil, fmt.Errorf("company id is required: %w", ErrInvalidInput)
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &EmployeePage{Employees: employees, Total: total}, nil
}

func (s *EmployeeService) Get(ctx context.Context, companyID, id uuid.UUID) (*domain.Employee, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("employee", err)
	}
	if e.CompanyID != companyID {
		return nil, fmt.Errorf("employee %w", ErrNotFound)
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, companyID uuid.UUID, req CreateEmployeeRequest) (*domain.Employee, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, translate("company", err)
	}

	if company.MaxEmployees > 0 {
		count, err := s.companyRepo.CountEmployees(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if count >= company.MaxEmployees {
			return nil, ErrQuotaExceeded
		}
	}

	salary := decimal.Zero
	if req.Salary != "" {
		if salary, err = decimal.NewFromString(req.Salary); err != nil {
			return nil, fmt.Errorf("salary: %w", ErrInvalidInput)
		}
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	e := &domain.Employee{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Department:   strings.TrimSpace(req.Department),
		Designation:  strings.TrimSpace(req.Designation),
		Salary:       salary,
		Status:       domain.EmployeeStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.employeeRepo.Create(ctx, e); err != nil {
		return nil, translate("employee", err)
	}

	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateEmployeeRequest) (*domain.Employee, error) {
	e, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	wasActive := e.Status == domain.EmployeeStatusActive

	if req.FirstName != nil {
		e.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		e.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Department != nil {
		e.Department = strings.TrimSpace(*req.Department)
	}
	if req.Designation != nil {
		e.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Status != nil {
		e.Status = domain.EmployeeStatus(*req.Status)
	}
	if req.Salary != nil {
		salary, err := decimal.NewFromString(*req.Salary)
		if err != nil {
			return nil, fmt.Errorf("salary: %w", ErrInvalidInput)
		}
		e.Salary = salary
	}
	e.UpdatedAt = s.now()

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return nil, translate("employee", err)
	}

	if wasActive && e.Status != domain.EmployeeStatusActive {
		if err := s.sessions.EndAllSessions(ctx, domain.ActorEmployee, id); err != nil {
			return nil, fmt.Errorf("end employee sessions: %w", err)
		}
	}

	return e, nil
}

// Delete removes the employee and ends their sessions.
func (s *EmployeeService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return translate("employee", err)
	}
	if err := s.sessions.EndAllSessions(ctx, domain.ActorEmployee, id); err != nil {
		return fmt.Errorf("end employee sessions: %w", err)
	}
	return nil
}

// Salary returns the salary of an employee. Callers gate it behind the
// salary_view capability.
func (s *EmployeeService) Salary(ctx context.Context, companyID, id uuid.UUID) (*domain.Salary, error) {
	e, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return &domain.Salary{EmployeeID: e.ID, Amount: e.Salary}, nil
}
