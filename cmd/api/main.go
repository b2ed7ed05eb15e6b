package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/whatsapp-leads/api/internal/auth"
	"github.com/octobees/whatsapp-leads/api/internal/cache"
	"github.com/octobees/whatsapp-leads/api/internal/config"
	"github.com/octobees/whatsapp-leads/api/internal/database"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/handler"
	"github.com/octobees/whatsapp-leads/api/internal/jobs"
	"github.com/octobees/whatsapp-leads/api/internal/logger"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	middlewarepkg "github.com/octobees/whatsapp-leads/api/internal/middleware"
	"github.com/octobees/whatsapp-leads/api/internal/realtime"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/router"
	"github.com/octobees/whatsapp-leads/api/internal/service"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
	"github.com/octobees/whatsapp-leads/api/internal/service/timeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, os.Stdout)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	m := metrics.New()
	offset := funnel.Offset(cfg.TenantUTCOffset)

	var (
		reportCache service.ReportCache
		revoker     service.TokenRevoker
	)
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, running without cache", "error", err)
		} else {
			defer redisClient.Close()
			reportCache = cache.NewReportStore(redisClient, cfg.ReportCacheTTL)
			revoker = cache.NewRevocations(redisClient)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	leadsRepo := repository.NewPGXLeadsRepository(pool)
	companiesRepo := repository.NewPGXCompaniesRepository(pool)
	distributionRepo := repository.NewPGXDistributionRepository(pool)

	gw := gateway.NewClient(nil, cfg.GatewayTimeout, m)
	timelines := timeline.NewRegistry(1000, timeline.DefaultLimit)

	authService := service.NewAuthService(companiesRepo, jwtManager, revoker, cfg.PhoneRegion, m)
	reportService := service.NewReportService(leadsRepo, companiesRepo, reportCache, offset, log, m)
	leadService := service.NewLeadService(leadsRepo, reportService, offset, cfg.PhoneRegion, log, m)
	chatService := service.NewChatService(gw, companiesRepo, leadsRepo, timelines, log, m)
	profileService := service.NewProfileService(companiesRepo, gw, log)
	distributionService := service.NewDistributionService(distributionRepo, cfg.PhoneRegion)

	hub := realtime.NewHub(chatService, cfg.ChatPollInterval, log)

	cronManager := jobs.NewCronManager(distributionService, offset, log)
	if err := cronManager.SetupJobs(); err != nil {
		log.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}
	cronManager.Start()
	defer cronManager.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(middlewarepkg.RequestID())
	e.Use(m.Middleware())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, authService, m, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Dashboard:    handler.NewDashboardHandler(reportService),
		Leads:        handler.NewLeadsHandler(leadService),
		Chats:        handler.NewChatsHandler(chatService, hub),
		Profile:      handler.NewProfileHandler(profileService),
		Distribution: handler.NewDistributionHandler(distributionService),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", "error", err)
	}
}
