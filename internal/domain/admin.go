package domain

import (
	"time"

	"github.com/google/uuid"
)

const AdminStatusActive = "active"

type Admin struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

func (a *Admin) Profile() Profile {
	return Profile{
		ID:     a.ID.String(),
		Name:   a.Name,
		Email:  a.Email,
		Role:   string(ActorAdmin),
		Status: a.Status,
	}
}
