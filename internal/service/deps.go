package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/repository"
	"github.com/andressep95/hr-service/pkg/jwt"
)

// TokenIssuer is implemented by *jwt.TokenService.
type TokenIssuer interface {
	Issue(sub jwt.Subject) (*domain.IssuedToken, error)
	Expiry() time.Duration
}

// Revoker is implemented by *blacklist.TokenBlacklist.
type Revoker interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	RevokeActor(ctx context.Context, class, actorID string, ttl time.Duration) error
}

// PasswordHasher is implemented by *hash.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsRehash(encodedHash string) bool
}

// SessionTerminator is implemented by *AuthService.
type SessionTerminator interface {
	EndAllSessions(ctx context.Context, class domain.ActorClass, id uuid.UUID) error
}

// ClientMeta describes the caller of a login.
type ClientMeta struct {
	UserAgent string
	IP        string
}

// translate maps repository sentinels onto service errors.
func translate(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s %w", what, ErrAlreadyExists)
	default:
		return err
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
