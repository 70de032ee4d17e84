package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/andressep95/hr-service/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware attaches a request-scoped logger to the user context and
// logs every completed request. An incoming X-Request-ID is kept, otherwise
// one is generated; it is echoed on the response.
func LoggerMiddleware(l *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		ctx := logger.WithLogger(c.UserContext(), l)
		ctx = logger.SetRequestID(ctx, requestID)
		ctx = logger.SetIP(ctx, c.IP())
		ctx = logger.SetMethod(ctx, c.Method())
		ctx = logger.SetURL(ctx, c.OriginalURL())
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		// the auth middleware may have enriched the context
		ctx = c.UserContext()
		l.Log(ctx, level, "request completed",
			"status", status,
			"latency", time.Since(start).String(),
		)

		return err
	}
}
