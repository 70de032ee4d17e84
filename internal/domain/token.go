package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are carried by every access token. CompanyID is the company itself
// for company tokens and the employer for employee tokens.
type Claims struct {
	jwt.RegisteredClaims
	ActorClass ActorClass `json:"cls"`
	ActorID    uuid.UUID  `json:"uid"`
	Email      string     `json:"email"`
	CompanyID  uuid.UUID  `json:"cid,omitempty"`
	SessionID  uuid.UUID  `json:"sid"`
}

// IssuedToken is a signed access token.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// LoginResult is the data of a successful login response.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   Profile   `json:"profile"`
}
