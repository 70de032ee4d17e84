package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/andressep95/hr-service/pkg/logger"
)

// RecoveryMiddleware recovers from panics and returns 500 error
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				ctx := c.UserContext()
				logger.FromContext(ctx).ErrorContext(ctx, "panic recovered",
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)

				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "internal server error",
				})
			}
		}()

		return c.Next()
	}
}
