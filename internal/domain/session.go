package domain

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ActorClass ActorClass `json:"actor_class" db:"actor_class"`
	ActorID    uuid.UUID  `json:"actor_id" db:"actor_id"`
	TokenHash  string     `json:"-" db:"token_hash"`
	UserAgent  string     `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress  string     `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
