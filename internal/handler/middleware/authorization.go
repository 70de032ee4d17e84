package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/pkg/logger"
	"github.com/andressep95/hr-service/pkg/rbac"
)

// CapabilityEvaluator is implemented by *service.RoleService.
type CapabilityEvaluator interface {
	Evaluate(ctx context.Context, claims *domain.Claims, featureKey string, action rbac.Action) (bool, error)
}

// RequireCapability lets the request through when the caller holds action on
// featureKey. It must run after AuthMiddleware.
func RequireCapability(evaluator CapabilityEvaluator, featureKey string, action rbac.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(ClaimsKey).(*domain.Claims)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}

		ctx := c.UserContext()
		allowed, err := evaluator.Evaluate(ctx, claims, featureKey, action)
		if err != nil {
			// Evaluation failures deny.
			logger.FromContext(ctx).ErrorContext(ctx, "failed to evaluate capability",
				"feature", featureKey, "action", string(action), "error", err)
			return denied(c)
		}
		if !allowed {
			return denied(c)
		}

		return c.Next()
	}
}
