package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
)

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, actor_class, actor_id, token_hash, user_agent, ip_address, expires_at, created_at`

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (
			:id, :actor_class, :actor_id, :token_hash, :user_agent,
			:ip_address, :expires_at, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return wrapErr("create session", err)
	}
	return nil
}

// GetByID returns the session if it has not expired
func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var session domain.Session
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND expires_at > $2`

	if err := r.db.GetContext(ctx, &session, query, id, time.Now()); err != nil {
		return nil, wrapErr("get session", err)
	}
	return &session, nil
}

func (r *sessionRepository) ListByActor(ctx context.Context, class domain.ActorClass, actorID uuid.UUID) ([]*domain.Session, error) {
	sessions := []*domain.Session{}
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE actor_class = $1 AND actor_id = $2 AND expires_at > $3
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &sessions, query, class, actorID, time.Now()); err != nil {
		return nil, wrapErr("list sessions", err)
	}
	return sessions, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete session", err)
	}
	return expectAffected("delete session", res)
}

func (r *sessionRepository) DeleteByActor(ctx context.Context, class domain.ActorClass, actorID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE actor_class = $1 AND actor_id = $2`, class, actorID)
	if err != nil {
		return wrapErr("delete actor sessions", err)
	}
	return nil
}

// DeleteExpired removes all expired sessions and reports how many were removed
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, wrapErr("delete expired sessions", err)
	}
	return res.RowsAffected()
}
