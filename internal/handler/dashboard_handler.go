package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// DashboardHandler exposes the reporting endpoints.
type DashboardHandler struct {
	reports *service.ReportService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(reports *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// Stats handles GET /dashboard/stats?range|start&end&area.
func (h *DashboardHandler) Stats(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	stats := h.reports.Stats(c.Request().Context(), tenant, rangeQuery(c), strings.TrimSpace(c.QueryParam("area")))
	return Success(c, http.StatusOK, "", stats)
}

// LeadsOverTime handles GET /dashboard/leads-over-time?range|start&end.
func (h *DashboardHandler) LeadsOverTime(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	return Success(c, http.StatusOK, "", h.reports.LeadsOverTime(c.Request().Context(), tenant, rangeQuery(c)))
}

// Scripts handles GET /dashboard/scripts.
func (h *DashboardHandler) Scripts(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	return Success(c, http.StatusOK, "", h.reports.Scripts(c.Request().Context(), tenant))
}
