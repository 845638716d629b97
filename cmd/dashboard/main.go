package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-accompaniment-dashboard/api/swagger"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-accompaniment-dashboard/internal/middleware"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/repository"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/service"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/view"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/cache"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/config"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/export"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-accompaniment-dashboard/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-accompaniment-dashboard/pkg/middleware/requestid"
)

// @title Student Accompaniment Dashboard
// @version 1.0.0
// @description Dashboard and report creation flow over the reports backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis, cfg.Cache.Enabled)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "dashboard:", logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DashboardTTL, logr, redisClient != nil)
	validate := validator.New()

	backend := repository.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, metricsSvc, logr)
	reportRepo := repository.NewReportRepository(backend, logr)
	directoryRepo := repository.NewDirectoryRepository(backend)

	directorySvc := service.NewDirectoryService(directoryRepo, cacheSvc, cfg.Cache.ReferenceTTL, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Reports:   reportRepo,
		Directory: directorySvc,
		Cache:     cacheSvc,
		Logger:    logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:    cfg.Cache.DashboardTTL,
			RecentLimit: cfg.Dashboard.RecentLimit,
		},
	})
	reportSvc := service.NewReportService(reportRepo, validate, logr)
	flowSvc := service.NewReportFlowService(service.ReportFlowParams{
		Reports:   reportRepo,
		Refresh:   dashboardSvc,
		Validator: validate,
		Metrics:   metricsSvc,
		Logger:    logr,
		Timeout:   cfg.Backend.Timeout,
	})
	analyticsSvc := service.NewAnalyticsService(reportRepo, cacheSvc, cfg.Cache.AnalyticsTTL, logr, export.NewCSVExporter(), export.NewPDFExporter())
	authSvc := service.NewAuthService(service.AuthConfig{Secret: cfg.Auth.Secret, Issuer: "sma-accompaniment-dashboard"}, logr)

	links := view.Links{PublicURL: cfg.Backend.PublicURL}
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, directorySvc, links, logr)
	reportHandler := handler.NewReportHandler(flowSvc, reportSvc, dashboardSvc, directorySvc, links, logr)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	authHandler := handler.NewAuthHandler(authSvc, cfg.Auth.CookieName, cfg.Env == config.EnvProduction)
	metricsHandler := handler.NewMetricsHandler(metricsSvc.Handler(), map[string]handler.ReadinessCheck{
		"backend": backend.Ping,
		"redis":   cacheRepo.Ping,
	}, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.SetHTMLTemplate(view.Templates())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := internalmiddleware.JWT(authSvc, internalmiddleware.AuthOptions{
		CookieName: cfg.Auth.CookieName,
		Required:   cfg.Auth.Required,
	})

	authGroup := r.Group("/auth")
	if cfg.Env == config.EnvDevelopment {
		authGroup.GET("/dev-login", authHandler.DevLogin)
	}
	authGroup.GET("/logout", authHandler.Logout)

	ui := r.Group("/", auth)
	ui.GET("/", dashboardHandler.Index)
	ui.GET("/reports/new", reportHandler.New)
	ui.POST("/reports", reportHandler.Create)
	ui.POST("/reports/conflict/dismiss", reportHandler.DismissConflict)
	ui.GET("/reports/conflict/:id", reportHandler.OpenConflict)

	api := r.Group("/api", corsmiddleware.New(cfg.CORS.AllowedOrigins), auth)
	api.GET("/me", authHandler.Me)
	api.GET("/dashboard", dashboardHandler.Summary)
	api.GET("/users/options", directoryHandler.AssignmentOptions)
	api.GET("/courses", directoryHandler.Courses)
	api.GET("/students", directoryHandler.Students)
	api.POST("/reports", reportHandler.CreateJSON)
	api.POST("/reports/:id/observations", reportHandler.AddObservation)
	api.POST("/reports/:id/recommendations", reportHandler.AddRecommendation)
	api.GET("/analytics", analyticsHandler.Summary)

	exportChain := []gin.HandlerFunc{analyticsHandler.Export}
	if cfg.Auth.Required {
		exportChain = append([]gin.HandlerFunc{internalmiddleware.RequireRoles(models.RoleCoordinator, models.RoleAdmin)}, exportChain...)
	}
	api.GET("/analytics/export", exportChain...)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
