package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/config"
	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
	"github.com/andressep95/hr-service/pkg/broker"
	"github.com/andressep95/hr-service/pkg/jwt"
	"github.com/andressep95/hr-service/pkg/logger"
)

type AuthService struct {
	adminRepo    repository.AdminRepository
	companyRepo  repository.CompanyRepository
	employeeRepo repository.EmployeeRepository
	sessionRepo  repository.SessionRepository
	tokens       TokenIssuer
	revoker      Revoker
	hasher       PasswordHasher
	events       broker.Publisher
	auth         config.AuthConfig
	now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
}

func NewAuthService(
	adminRepo repository.AdminRepository,
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	sessionRepo repository.SessionRepository,
	tokens TokenIssuer,
	revoker Revoker,
	hasher PasswordHasher,
	events broker.Publisher,
	auth config.AuthConfig,
) *AuthService {
	return &AuthService{
		adminRepo:    adminRepo,
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		sessionRepo:  sessionRepo,
		tokens:       tokens,
		revoker:      revoker,
		hasher:       hasher,
		events:       events,
		auth:         auth,
		now:          time.Now,
	}
}

// principal is the class-independent view of an account during login.
type principal struct {
	id           uuid.UUID
	email        string
	passwordHash string
	companyID    uuid.UUID
	active       bool
	locked       bool
	profile      domain.Profile
}

// Login authenticates an actor of the given class and opens a session.
// Unknown emails and wrong passwords are reported identically and cost the
// same hashing work. A lock or an inactive status is only revealed to a
// caller holding the right password.
func (s *AuthService) Login(ctx context.Context, class domain.ActorClass, req LoginRequest, meta ClientMeta) (*domain.LoginResult, error) {
	log := logger.FromContext(ctx)
	email := strings.TrimSpace(req.Email)

	p, err := s.lookup(ctx, class, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.verifyDummy(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := s.hasher.Verify(req.Password, p.passwordHash)
	if err != nil {
		log.ErrorContext(ctx, "password hash verification failed", "actor_class", class, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !valid {
		if class == domain.ActorEmployee && !p.locked {
			if err := s.employeeRepo.RegisterFailedLogin(ctx, p.id, s.auth.MaxFailedLogins, s.auth.LockDuration); err != nil {
				log.ErrorContext(ctx, "failed to register failed login", "error", err)
			}
		}
		return nil, ErrInvalidCredentials
	}

	if p.locked {
		return nil, ErrAccountLocked
	}
	if !p.active {
		return nil, ErrAccountInactive
	}

	s.upgradeHash(ctx, class, p.id, req.Password, p.passwordHash)

	sessionID := uuid.New()
	issued, err := s.tokens.Issue(jwt.Subject{
		Class:     class,
		ID:        p.id,
		Email:     p.email,
		CompanyID: p.companyID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	session := &domain.Session{
		ID:         sessionID,
		ActorClass: class,
		ActorID:    p.id,
		TokenHash:  hashToken(issued.Token),
		UserAgent:  meta.UserAgent,
		IPAddress:  meta.IP,
		ExpiresAt:  issued.ExpiresAt,
		CreatedAt:  s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.touchLastLogin(ctx, class, p.id); err != nil {
		log.WarnContext(ctx, "failed to update last login", "actor_class", class, "error", err)
	}

	s.events.PublishSession(ctx, broker.SessionEvent{
		Type:       broker.EventLogin,
		ActorClass: string(class),
		ActorID:    p.id.String(),
		CompanyID:  companyIDString(p.companyID),
		SessionID:  sessionID.String(),
		At:         s.now().UTC(),
	})

	return &domain.LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Profile:   p.profile,
	}, nil
}

func (s *AuthService) lookup(ctx context.Context, class domain.ActorClass, email string) (*principal, error) {
	switch class {
	case domain.ActorAdmin:
		a, err := s.adminRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &principal{
			id:           a.ID,
			email:        a.Email,
			passwordHash: a.PasswordHash,
			active:       a.Status == domain.AdminStatusActive,
			profile:      a.Profile(),
		}, nil

	case domain.ActorCompany:
		c, err := s.companyRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &principal{
			id:           c.ID,
			email:        c.Email,
			passwordHash: c.PasswordHash,
			companyID:    c.ID,
			active:       c.Status == domain.CompanyStatusActive,
			profile:      c.Profile(),
		}, nil

	case domain.ActorEmployee:
		e, err := s.employeeRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &principal{
			id:           e.ID,
			email:        e.Email,
			passwordHash: e.PasswordHash,
			companyID:    e.CompanyID,
			active:       e.Status == domain.EmployeeStatusActive,
			locked:       e.IsLocked(s.now()),
			profile:      e.Profile(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown actor class %q: %w", class, ErrInvalidInput)
	}
}

// verifyDummy runs one verification against a throwaway hash made with the
// current parameters.
func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		if h, err := s.hasher.Hash(uuid.NewString()); err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// upgradeHash re-stores a verified password when its hash was made with
// weaker parameters than the hasher's. Failures are logged and leave the old
// hash in place.
func (s *AuthService) upgradeHash(ctx context.Context, class domain.ActorClass, id uuid.UUID, password, encodedHash string) {
	if !s.hasher.NeedsRehash(encodedHash) {
		return
	}

	log := logger.FromContext(ctx)
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		log.WarnContext(ctx, "failed to rehash password", "actor_class", class, "error", err)
		return
	}

	switch class {
	case domain.ActorAdmin:
		err = s.adminRepo.UpdatePassword(ctx, id, newHash)
	case domain.ActorCompany:
		err = s.companyRepo.UpdatePassword(ctx, id, newHash)
	default:
		err = s.employeeRepo.UpdatePassword(ctx, id, newHash)
	}
	if err != nil {
		log.WarnContext(ctx, "failed to store rehashed password", "actor_class", class, "error", err)
		return
	}

	log.InfoContext(ctx, "password hash upgraded", "actor_class", class)
}

func (s *AuthService) touchLastLogin(ctx context.Context, class domain.ActorClass, id uuid.UUID) error {
	switch class {
	case domain.ActorAdmin:
		return s.adminRepo.UpdateLastLogin(ctx, id)
	case domain.ActorCompany:
		return s.companyRepo.UpdateLastLogin(ctx, id)
	default:
		return s.employeeRepo.UpdateLastLogin(ctx, id)
	}
}

// Logout revokes the presented token and ends its session. A session that is
// already gone is not an error.
func (s *AuthService) Logout(ctx context.Context, claims *domain.Claims) error {
	if claims.ExpiresAt != nil {
		if err := s.revoker.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.FromContext(ctx).WarnContext(ctx, "failed to delete session", "session_id", claims.SessionID, "error", err)
	}

	s.events.PublishSession(ctx, broker.SessionEvent{
		Type:       broker.EventLogout,
		ActorClass: string(claims.ActorClass),
		ActorID:    claims.ActorID.String(),
		CompanyID:  companyIDString(claims.CompanyID),
		SessionID:  claims.SessionID.String(),
		At:         s.now().UTC(),
	})

	return nil
}

// Profile returns the current profile of the actor.
func (s *AuthService) Profile(ctx context.Context, class domain.ActorClass, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile

	switch class {
	case domain.ActorAdmin:
		a, err := s.adminRepo.GetByID(ctx, id)
		if err != nil {
			return nil, translate("admin", err)
		}
		p = a.Profile()
	case domain.ActorCompany:
		c, err := s.companyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, translate("company", err)
		}
		p = c.Profile()
	case domain.ActorEmployee:
		e, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, translate("employee", err)
		}
		p = e.Profile()
	default:
		return nil, ErrInvalidInput
	}

	return &p, nil
}

// UpdateEmployeeProfile lets an employee edit their own name.
func (s *AuthService) UpdateEmployeeProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.Profile, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate("employee", err)
	}

	e.FirstName = strings.TrimSpace(req.FirstName)
	e.LastName = strings.TrimSpace(req.LastName)
	e.UpdatedAt = s.now()

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return nil, translate("employee", err)
	}

	p := e.Profile()
	return &p, nil
}

// ChangeEmployeePassword replaces the password and ends every session of the
// employee, including the current one.
func (s *AuthService) ChangeEmployeePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return translate("employee", err)
	}

	valid, err := s.hasher.Verify(req.OldPassword, e.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.UpdatePassword(ctx, id, newHash); err != nil {
		return translate("employee", err)
	}

	return s.EndAllSessions(ctx, domain.ActorEmployee, id)
}

// EndAllSessions deletes the actor's sessions and revokes every token issued
// to it so far.
func (s *AuthService) EndAllSessions(ctx context.Context, class domain.ActorClass, id uuid.UUID) error {
	if err := s.sessionRepo.DeleteByActor(ctx, class, id); err != nil {
		return err
	}

	if err := s.revoker.RevokeActor(ctx, string(class), id.String(), s.tokens.Expiry()); err != nil {
		return err
	}

	s.events.PublishSession(ctx, broker.SessionEvent{
		Type:       broker.EventRevoked,
		ActorClass: string(class),
		ActorID:    id.String(),
		At:         s.now().UTC(),
	})
	return nil
}

func companyIDString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
