package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

type SessionService struct {
	sessionRepo repository.SessionRepository
}

type SessionView struct {
	*domain.Session
	Current bool `json:"current"`
}

func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// List returns the live sessions of the caller, marking the one the token
// belongs to.
func (s *SessionService) List(ctx context.Context, claims *domain.Claims) ([]SessionView, error) {
	sessions, err := s.sessionRepo.ListByActor(ctx, claims.ActorClass, claims.ActorID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionView{Session: sess, Current: sess.ID == claims.SessionID})
	}
	return out, nil
}

// Revoke ends one of the caller's other sessions. Its token is rejected from
// then on because the auth middleware requires a live session.
func (s *SessionService) Revoke(ctx context.Context, claims *domain.Claims, sessionID uuid.UUID) error {
	if sessionID == claims.SessionID {
		return fmt.Errorf("use logout to end the current session: %w", ErrInvalidInput)
	}

	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return translate("session", err)
	}
	if sess.ActorClass != claims.ActorClass || sess.ActorID != claims.ActorID {
		return fmt.Errorf("session %w", ErrNotFound)
	}

	return translate("session", s.sessionRepo.Delete(ctx, sessionID))
}

// Active reports whether the session still exists.
func (s *SessionService) Active(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	_, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Prune deletes expired sessions.
func (s *SessionService) Prune(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}
