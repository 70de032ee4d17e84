package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusLocked   EmployeeStatus = "locked"
)

type Employee struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CompanyID    uuid.UUID       `json:"company_id" db:"company_id"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	FirstName    string          `json:"first_name" db:"first_name"`
	LastName     string          `json:"last_name" db:"last_name"`
	Department   string          `json:"department" db:"department"`
	Designation  string          `json:"designation" db:"designation"`
	Salary       decimal.Decimal `json:"-" db:"salary"` // exposed only through the salary endpoint
	Status       EmployeeStatus  `json:"status" db:"status"`
	FailedLogins int             `json:"-" db:"failed_logins"`
	LockedUntil  *time.Time      `json:"-" db:"locked_until"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time      `json:"last_login_at" db:"last_login_at"`
}

func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// IsLocked reports whether failed logins currently lock the account.
func (e *Employee) IsLocked(now time.Time) bool {
	return e.LockedUntil != nil && now.Before(*e.LockedUntil)
}

func (e *Employee) Profile() Profile {
	return Profile{
		ID:          e.ID.String(),
		Name:        e.FullName(),
		Email:       e.Email,
		Role:        string(ActorEmployee),
		Status:      string(e.Status),
		Department:  e.Department,
		Designation: e.Designation,
		CompanyID:   e.CompanyID.String(),
	}
}

// EmployeeFilter narrows an employee listing. CompanyID is always required.
type EmployeeFilter struct {
	CompanyID  uuid.UUID
	Search     string
	Department string
	Status     EmployeeStatus
	Limit      int
	Offset     int
}

type Salary struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
}
