package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/middleware"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

func tenantID(c echo.Context) (int64, bool) {
	return middleware.TenantIDFromContext(c)
}

func missingTenant(c echo.Context) error {
	return Error(c, http.StatusUnauthorized, "missing tenant")
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func rangeQuery(c echo.Context) service.RangeQuery {
	return service.RangeQuery{
		Preset: c.QueryParam("range"),
		Start:  c.QueryParam("start"),
		End:    c.QueryParam("end"),
	}
}
