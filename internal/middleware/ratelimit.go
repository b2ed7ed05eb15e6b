package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/whatsapp-leads/api/internal/config"
)

// TenantRateLimiter applies a token bucket per authenticated tenant. Requests without a tenant pass.
func TenantRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var (
		mu       sync.Mutex
		limiters = make(map[int64]*rate.Limiter)
	)
	limiterFor := func(tenantID int64) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[tenantID]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
			limiters[tenantID] = limiter
		}
		return limiter
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, ok := TenantIDFromContext(c)
			if !ok {
				return next(c)
			}
			if !limiterFor(tenantID).Allow() {
				return deny(c, http.StatusTooManyRequests, "send rate limit exceeded")
			}
			return next(c)
		}
	}
}
