package main

import (
	"wellbeing-service/internal/dashboard"
	"wellbeing-service/internal/handler"
	"wellbeing-service/internal/identity"
	"wellbeing-service/internal/middleware"
	"wellbeing-service/pkg/config"
	"wellbeing-service/pkg/database"
	"wellbeing-service/pkg/jwtutil"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting wellbeing service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT, log)
	log.Info("JWT utility initialized")

	// Wire the access gate and the dashboard core
	resolver := identity.NewResolver(database.GetDB())
	dashboardHandler := handler.NewDashboardHandler(
		dashboard.NewService(dashboard.NewStore(database.GetDB())))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require a valid credential and a resolvable subject
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(resolver))

	// User management
	users := api.Group("/users")
	users.GET("/profile", handler.GetProfile)
	users.PATCH("/profile", handler.UpdateProfile)
	users.POST("/change-password", handler.ChangePassword)
	users.GET("/:id/assessments", handler.GetUserAssessments)

	// Company views
	companies := api.Group("/companies")
	companies.GET("/:id", handler.GetCompany)
	companies.GET("/:id/users", handler.ListCompanyUsers)

	// Assessments
	assessments := api.Group("/assessments")
	assessments.POST("/disc", handler.CreateDiscAssessment)
	assessments.POST("/mental-health", handler.CreateMentalHealthAssessment)

	// Psychosocial risks
	risks := api.Group("/risks")
	risks.POST("", handler.CreateRisk)
	risks.GET("", handler.ListRisks)
	risks.PATCH("/:id/status", handler.UpdateRiskStatus)

	// Dashboard rollups
	api.GET("/dashboard/metrics/:companyId", dashboardHandler.Metrics)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
