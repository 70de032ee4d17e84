package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

// SetupService creates the first platform admin. It works once.
type SetupService struct {
	adminRepo repository.AdminRepository
	hasher    PasswordHasher
	token     string
}

type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
}

func NewSetupService(adminRepo repository.AdminRepository, hasher PasswordHasher, setupToken string) *SetupService {
	return &SetupService{adminRepo: adminRepo, hasher: hasher, token: setupToken}
}

// CreateFirstAdmin requires presentedToken to match the configured setup
// token when one is configured.
func (s *SetupService) CreateFirstAdmin(ctx context.Context, presentedToken string, req CreateAdminRequest) (*domain.Admin, error) {
	if s.token != "" && subtle.ConstantTimeCompare([]byte(s.token), []byte(presentedToken)) != 1 {
		return nil, ErrInvalidSetupToken
	}

	exists, err := s.adminRepo.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSetupCompleted
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		Status:       domain.AdminStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, translate("admin", err)
	}
	return admin, nil
}
