package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/blacklist"
	"github.com/andressep95/hr-service/pkg/jwt"
	"github.com/andressep95/hr-service/pkg/logger"
)

// ClaimsKey matches handler.ClaimsKey.
const ClaimsKey = "claims"

// SessionChecker is implemented by *service.SessionService.
type SessionChecker interface {
	Active(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func denied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"message": "Access Denied",
	})
}

// AuthMiddleware validates the bearer token, rejects revoked tokens and
// tokens whose session has ended, and stores the claims in fiber.Locals.
// With classes given, tokens of any other actor class get a 403.
func AuthMiddleware(tokenService *jwt.TokenService, tokenBlacklist *blacklist.TokenBlacklist, sessions SessionChecker, classes ...domain.ActorClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return unauthorized(c, "invalid authorization header format")
		}

		claims, err := tokenService.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c, "invalid token")
		}

		ctx := c.UserContext()
		log := logger.FromContext(ctx)

		revoked, err := tokenBlacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.ErrorContext(ctx, "failed to check token blacklist", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "failed to verify token status",
			})
		}
		if revoked {
			return unauthorized(c, "token has been revoked")
		}

		if claims.IssuedAt != nil {
			revoked, err = tokenBlacklist.IsActorRevoked(ctx, string(claims.ActorClass), claims.ActorID.String(), claims.IssuedAt.Time)
			if err != nil {
				log.ErrorContext(ctx, "failed to check actor revocation", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "failed to verify token status",
				})
			}
			if revoked {
				return unauthorized(c, "token has been revoked")
			}
		}

		active, err := sessions.Active(ctx, claims.SessionID)
		if err != nil {
			log.ErrorContext(ctx, "failed to load session", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "failed to verify token status",
			})
		}
		if !active {
			return unauthorized(c, "session has ended, token is no longer valid")
		}

		if len(classes) > 0 && !slices.Contains(classes, claims.ActorClass) {
			return denied(c)
		}

		ctx = logger.SetActorID(ctx, claims.ActorID.String())
		ctx = logger.SetActorClass(ctx, string(claims.ActorClass))
		c.SetUserContext(ctx)
		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}
