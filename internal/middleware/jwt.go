package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/whatsapp-leads/api/internal/auth"
)

// RevocationChecker reports whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWT validates bearer tokens and stores the tenant in the request context.
// Websocket clients may pass the token in the access_token query parameter instead of the header.
// A failing revocation lookup lets the token through.
func JWT(manager *authpkg.JWTManager, revocations RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return deny(c, http.StatusUnauthorized, "missing or invalid authorization header")
			}

			claims, err := manager.ParseToken(token)
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}
			tenantID, err := claims.TenantID()
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}

			if revocations != nil && claims.ID != "" {
				if revoked, err := revocations.IsRevoked(c.Request().Context(), claims.ID); err == nil && revoked {
					return deny(c, http.StatusUnauthorized, "session ended")
				}
			}

			c.Set(ContextKeyTenantID, tenantID)
			c.Set(ContextKeyTenantName, claims.Name)
			c.Set(ContextKeyClaims, claims)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		token := strings.TrimSpace(c.QueryParam("access_token"))
		return token, token != ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
