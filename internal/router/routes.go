package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/auth"
	"github.com/octobees/whatsapp-leads/api/internal/config"
	"github.com/octobees/whatsapp-leads/api/internal/handler"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	middlewarepkg "github.com/octobees/whatsapp-leads/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Dashboard    *handler.DashboardHandler
	Leads        *handler.LeadsHandler
	Chats        *handler.ChatsHandler
	Profile      *handler.ProfileHandler
	Distribution *handler.DistributionHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, revocations middlewarepkg.RevocationChecker, m *metrics.Metrics, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager, revocations))

	secured.POST("/auth/logout", handlers.Auth.Logout)

	dashboard := secured.Group("/dashboard")
	dashboard.GET("/stats", handlers.Dashboard.Stats)
	dashboard.GET("/leads-over-time", handlers.Dashboard.LeadsOverTime)
	dashboard.GET("/scripts", handlers.Dashboard.Scripts)

	leads := secured.Group("/leads")
	leads.GET("", handlers.Leads.List)
	leads.GET("/board", handlers.Leads.Board)
	leads.PATCH("/:id/status", handlers.Leads.UpdateStatus)
	leads.PUT("/automation", handlers.Leads.SetAutomation)

	chats := secured.Group("/chats")
	chats.GET("", handlers.Chats.List)
	chats.GET("/:chatid/messages", handlers.Chats.Messages)
	chats.POST("/:chatid/messages", handlers.Chats.Send, middlewarepkg.TenantRateLimiter(cfg.RateLimitSend))
	chats.DELETE("/:chatid/messages/:id", handlers.Chats.Delete)
	chats.GET("/:chatid/stream", handlers.Chats.Stream)

	profile := secured.Group("/profile")
	profile.GET("", handlers.Profile.Get)
	profile.PUT("", handlers.Profile.Update)
	profile.GET("/instance", handlers.Profile.InstanceStatus)

	distribution := secured.Group("/distribution")
	distribution.GET("", handlers.Distribution.List)
	distribution.POST("", handlers.Distribution.Save)
	distribution.DELETE("/:id", handlers.Distribution.Delete)
}
