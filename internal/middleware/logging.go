package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one structured line for each HTTP request.
func Logging(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			attrs := []any{
				"request_id", RequestIDFromContext(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency", latency.String(),
			}
			if tenantID, ok := TenantIDFromContext(c); ok {
				attrs = append(attrs, "tenant_id", tenantID)
			}

			switch status := c.Response().Status; {
			case status >= 500:
				logger.Error("request", attrs...)
			case status >= 400:
				logger.Warn("request", attrs...)
			default:
				logger.Info("request", attrs...)
			}

			return err
		}
	}
}
