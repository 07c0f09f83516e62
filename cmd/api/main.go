package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swatchx/internal/config"
	"swatchx/internal/database"
	"swatchx/internal/handlers"
	"swatchx/internal/logger"
	"swatchx/internal/middleware"
	"swatchx/internal/services"
	"swatchx/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "swatchx/internal/docs" // Import swagger docs
	"swatchx/internal/validator"
)

// @title           SwatchX API
// @version         1.0
// @description     SwatchX tracks fleet expenses for the Swatch and SWS trucking companies: expense entry with receipt attachments, fleet reference data, spending analytics, and spreadsheet export.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Attachment storage
	store, err := storage.New(appConfig.AttachmentDir, appConfig.AttachmentMaxSize)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment storage: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db, store)
	referenceService := services.NewReferenceService(db)
	analyticsService := services.NewAnalyticsService(db)
	exportService := services.NewExportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	referenceHandler := handlers.NewReferenceHandler(referenceService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	exportHandler := handlers.NewExportHandler(exportService)
	categoryHandler := handlers.NewCategoryHandler()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(appConfig.AllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Root and health check endpoints
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to SwatchX API"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Auth routes
	auth := router.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/password/reset-request", authHandler.RequestPasswordReset)
	auth.POST("/password/reset-verify", authHandler.VerifyPasswordReset)

	account := auth.Group("/")
	account.Use(middleware.AuthMiddleware())
	account.GET("/me", authHandler.Me)
	account.GET("/security-questions", authHandler.GetSecurityQuestions)
	account.POST("/security-questions", authHandler.SetupSecurityQuestions)
	account.PUT("/security-questions", authHandler.UpdateSecurityQuestions)
	account.PUT("/security-questions/individual", authHandler.UpdateSecurityQuestion)
	account.POST("/password/change", authHandler.ChangePassword)
	account.GET("/preferences", authHandler.GetPreferences)
	account.PUT("/preferences", authHandler.UpdatePreferences)

	// API v1 group, all JWT-protected
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	// Expense routes
	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.GET("/:id/attachment", expenseHandler.DownloadAttachment)
	expenses.POST("/:id/attachment", expenseHandler.UploadAttachment)
	expenses.DELETE("/:id/attachment", expenseHandler.DeleteAttachment)

	// Spreadsheet export
	v1.GET("/export/expenses", exportHandler.ExportExpenses)

	// Reference data routes
	businessUnits := v1.Group("/business-units")
	businessUnits.POST("", referenceHandler.CreateBusinessUnit)
	businessUnits.GET("", referenceHandler.ListBusinessUnits)
	businessUnits.PUT("/:id", referenceHandler.UpdateBusinessUnit)
	businessUnits.DELETE("/:id", referenceHandler.DeleteBusinessUnit)

	trucks := v1.Group("/trucks")
	trucks.POST("", referenceHandler.CreateTruck)
	trucks.GET("", referenceHandler.ListTrucks)
	trucks.PUT("/:id", referenceHandler.UpdateTruck)
	trucks.DELETE("/:id", referenceHandler.DeleteTruck)

	trailers := v1.Group("/trailers")
	trailers.POST("", referenceHandler.CreateTrailer)
	trailers.GET("", referenceHandler.ListTrailers)
	trailers.PUT("/:id", referenceHandler.UpdateTrailer)
	trailers.DELETE("/:id", referenceHandler.DeleteTrailer)

	fuelStations := v1.Group("/fuel-stations")
	fuelStations.POST("", referenceHandler.CreateFuelStation)
	fuelStations.GET("", referenceHandler.ListFuelStations)
	fuelStations.PUT("/:id", referenceHandler.UpdateFuelStation)
	fuelStations.DELETE("/:id", referenceHandler.DeleteFuelStation)

	// Category configuration
	v1.GET("/categories", categoryHandler.GetCategories)

	// Analytics routes
	v1.GET("/pie-chart-data/:company", analyticsHandler.GetPieChartData)
	v1.GET("/monthly-change/:company", analyticsHandler.GetMonthlyChange)
	v1.GET("/top-categories/:company", analyticsHandler.GetTopCategories)

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting SwatchX backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests before exiting.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
