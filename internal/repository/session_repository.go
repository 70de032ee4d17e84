package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListByActor(ctx context.Context, class domain.ActorClass, actorID uuid.UUID) ([]*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByActor(ctx context.Context, class domain.ActorClass, actorID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
