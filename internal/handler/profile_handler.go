package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/dto"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// ProfileHandler exposes the company profile endpoints.
type ProfileHandler struct {
	profile *service.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profile *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	company, err := h.profile.Get(c.Request().Context(), tenant)
	if err != nil {
		return ServiceError(c, err, "unable to load profile")
	}
	return Success(c, http.StatusOK, "", company)
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	var req dto.ProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	company, err := h.profile.Update(c.Request().Context(), tenant, service.ProfileInput{
		Name:       req.Name,
		Address:    req.Address,
		WPPToken:   req.WPPToken,
		Phone:      req.Phone,
		GatewayURL: req.GatewayURL,
	})
	if err != nil {
		return ServiceError(c, err, "unable to update profile")
	}
	return Success(c, http.StatusOK, "profile updated", company)
}

// InstanceStatus handles GET /profile/instance.
func (h *ProfileHandler) InstanceStatus(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	status, err := h.profile.InstanceStatus(c.Request().Context(), tenant)
	if err != nil {
		return ServiceError(c, err, "unable to read instance status")
	}
	return Success(c, http.StatusOK, "", status)
}
