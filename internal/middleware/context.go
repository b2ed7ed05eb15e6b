package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/whatsapp-leads/api/internal/auth"
)

// Context keys used to store request and session metadata.
const (
	ContextKeyTenantID   = "tenant_id"
	ContextKeyTenantName = "tenant_name"
	ContextKeyClaims     = "claims"
	ContextKeyRequestID  = "request_id"
)

// TenantIDFromContext returns the authenticated tenant, if any.
func TenantIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(ContextKeyTenantID).(int64)
	return id, ok && id > 0
}

// ClaimsFromContext returns the parsed session claims, if any.
func ClaimsFromContext(c echo.Context) *authpkg.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*authpkg.Claims)
	return claims
}

func deny(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
