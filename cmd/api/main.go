package main

import (
	"fmt"
	"net/http"
	"os"

	"carteira/internal/config"
	"carteira/internal/database"
	"carteira/internal/handlers"
	"carteira/internal/identity"
	"carteira/internal/logger"
	"carteira/internal/mailer"
	"carteira/internal/middleware"
	"carteira/internal/store"
	"carteira/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "carteira/internal/docs" // Import swagger docs
)

// @title           Carteira API
// @version         1.0
// @description     Carteira is a personal investment tracker: accounts, password recovery, and a searchable asset catalog.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Register custom binding validators
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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()

	var mail mailer.Mailer
	if appConfig.SendGridAPIKey != "" {
		mail = mailer.NewSendGrid(appConfig.SendGridAPIKey, appConfig.SenderEmail, appConfig.SenderName)
	} else {
		log.Warn("SENDGRID_API_KEY not set, reset emails will be logged instead of sent")
		mail = mailer.NewLogOnly()
	}

	identityService := identity.NewService(db, mail, appConfig.AppBaseURL, appConfig.ResetTTL)
	assetStore := store.NewAssetStore(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	assetHandler := handlers.NewAssetHandler(assetStore)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Asset catalog routes
	assets := protected.Group("/assets")
	assets.GET("", assetHandler.List)
	assets.POST("", assetHandler.Create)
	assets.GET("/summary", assetHandler.Summary)
	assets.DELETE("/:id", assetHandler.Delete)

	log.Infof("Starting Carteira backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
