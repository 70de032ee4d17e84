package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hr:revoked"

// TokenBlacklist records revoked access tokens and per-actor revocation
// marks in Redis. Entries expire on their own once no token they cover can
// still be valid.
type TokenBlacklist struct {
	redis *redis.Client
	now   func() time.Time
}

func NewTokenBlacklist(redisClient *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		redis: redisClient,
		now:   time.Now,
	}
}

func tokenKey(tokenID string) string {
	return fmt.Sprintf("%s:token:%s", keyPrefix, tokenID)
}

func actorKey(class, actorID string) string {
	return fmt.Sprintf("%s:actor:%s:%s", keyPrefix, class, actorID)
}

// RevokeToken blacklists a token id until expiresAt. Expired tokens are
// ignored.
func (b *TokenBlacklist) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}

	if err := b.redis.Set(ctx, tokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := b.redis.Exists(ctx, tokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return exists > 0, nil
}

// RevokeActor invalidates every token of the actor issued before now. The
// mark lives for ttl, which must cover the longest token lifetime.
func (b *TokenBlacklist) RevokeActor(ctx context.Context, class, actorID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	if err := b.redis.Set(ctx, actorKey(class, actorID), b.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke actor: %w", err)
	}

	return nil
}

// IsActorRevoked reports whether a token issued at issuedAt predates the
// actor's revocation mark.
func (b *TokenBlacklist) IsActorRevoked(ctx context.Context, class, actorID string, issuedAt time.Time) (bool, error) {
	ts, err := b.redis.Get(ctx, actorKey(class, actorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check actor revocation: %w", err)
	}

	// second precision on both sides
	return issuedAt.Unix() < ts, nil
}
