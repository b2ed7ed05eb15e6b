package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/dto"
	"github.com/octobees/whatsapp-leads/api/internal/middleware"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Phone)
	if err != nil {
		return ServiceError(c, err, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{
		AccessToken: result.Token,
		ExpiresAt:   result.ExpiresAt,
		Company:     result.Company,
	})
}

// Logout handles POST /auth/logout requests. It always answers 204.
func (h *AuthHandler) Logout(c echo.Context) error {
	if claims := middleware.ClaimsFromContext(c); claims != nil {
		if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
			c.Logger().Warnf("logout: %v", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
