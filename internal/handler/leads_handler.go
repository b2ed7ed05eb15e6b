package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/dto"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// LeadsHandler exposes the lead list and board endpoints.
type LeadsHandler struct {
	leads *service.LeadService
}

// NewLeadsHandler constructs a LeadsHandler.
func NewLeadsHandler(leads *service.LeadService) *LeadsHandler {
	return &LeadsHandler{leads: leads}
}

// List handles GET /leads?range|start&end&area&status&limit.
func (h *LeadsHandler) List(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	page := h.leads.List(c.Request().Context(), tenant, service.LeadListQuery{
		Range:  rangeQuery(c),
		Area:   strings.TrimSpace(c.QueryParam("area")),
		Status: c.QueryParam("status"),
		Limit:  queryInt(c, "limit", service.DefaultLeadLimit),
	})
	return Success(c, http.StatusOK, "", page)
}

// Board handles GET /leads/board.
func (h *LeadsHandler) Board(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	return Success(c, http.StatusOK, "", h.leads.Board(c.Request().Context(), tenant))
}

// UpdateStatus handles PATCH /leads/:id/status.
func (h *LeadsHandler) UpdateStatus(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || leadID <= 0 {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	var req dto.UpdateStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	stage, err := h.leads.UpdateStatus(c.Request().Context(), tenant, leadID, req.Status)
	if err != nil {
		return ServiceError(c, err, "unable to update lead status")
	}
	return Success(c, http.StatusOK, "status updated", dto.UpdateStatusResponse{
		ID:      leadID,
		Stage:   string(stage),
		Literal: stage.Literal(),
	})
}

// SetAutomation handles PUT /leads/automation.
func (h *LeadsHandler) SetAutomation(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	var req dto.AutomationRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Enabled == nil {
		return Error(c, http.StatusBadRequest, "enabled is required")
	}

	if err := h.leads.SetAutomation(c.Request().Context(), tenant, req.Phone, *req.Enabled); err != nil {
		return ServiceError(c, err, "unable to update automation")
	}
	return Success(c, http.StatusOK, "automation updated", map[string]bool{"enabled": *req.Enabled})
}
