package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/dto"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// DistributionHandler exposes the lead distribution list.
type DistributionHandler struct {
	distribution *service.DistributionService
}

// NewDistributionHandler constructs a DistributionHandler.
func NewDistributionHandler(distribution *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distribution: distribution}
}

// List handles GET /distribution.
func (h *DistributionHandler) List(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	contacts, err := h.distribution.List(c.Request().Context(), tenant)
	if err != nil {
		return ServiceError(c, err, "unable to load distribution list")
	}
	return Success(c, http.StatusOK, "", contacts)
}

// Save handles POST /distribution. An id in the payload updates that contact.
func (h *DistributionHandler) Save(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	var req dto.DistributionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	contact, err := h.distribution.Save(c.Request().Context(), tenant, service.DistributionInput{
		ID:         req.ID,
		Name:       req.Name,
		Phone:      req.Phone,
		SheetURL:   req.SheetURL,
		DailyLimit: req.DailyLimit,
	})
	if err != nil {
		return ServiceError(c, err, "unable to save contact")
	}

	status := http.StatusCreated
	if req.ID > 0 {
		status = http.StatusOK
	}
	return Success(c, status, "contact saved", contact)
}

// Delete handles DELETE /distribution/:id.
func (h *DistributionHandler) Delete(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return Error(c, http.StatusBadRequest, "invalid contact id")
	}

	if err := h.distribution.Delete(c.Request().Context(), tenant, id); err != nil {
		return ServiceError(c, err, "unable to delete contact")
	}
	return c.NoContent(http.StatusNoContent)
}
