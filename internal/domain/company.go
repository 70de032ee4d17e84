package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompanyStatus represents the status of a company account
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusSuspended CompanyStatus = "suspended"
)

// Company is a tenant. Its own credential administers employees, roles and
// role permissions.
type Company struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Slug         string        `json:"slug" db:"slug"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Status       CompanyStatus `json:"status" db:"status"`
	MaxEmployees int           `json:"max_employees" db:"max_employees"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time    `json:"last_login_at" db:"last_login_at"`
}

func (c *Company) Profile() Profile {
	return Profile{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Role:      string(ActorCompany),
		Status:    string(c.Status),
		CompanyID: c.ID.String(),
	}
}
