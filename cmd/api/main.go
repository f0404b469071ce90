package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/events"
	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/services"
	"moneta/internal/token"
	"moneta/internal/validator"
)

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

	// Create database manager and run migrations
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Event publisher (no-op unless a broker is configured)
	var publisher events.Publisher = events.NoopPublisher{}
	if appConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(appConfig.AMQPURL)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Transaction event publishing enabled")
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	throttleService := services.NewThrottleService(db, services.ThrottleConfig{
		MaxFailures: appConfig.ThrottleMaxFailures,
		Window:      appConfig.ThrottleWindow,
		BanDuration: appConfig.ThrottleBanDuration,
	})
	transactionService := services.NewTransactionService(db)
	statisticsService := services.NewStatisticsService(db)
	auditService := services.NewAuditService(db)
	tokenService := token.NewService(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, throttleService, tokenService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService, publisher)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)

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

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.Auth(tokenService, userService))

	protected.GET("/auth/me", authHandler.Me)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	statistics := protected.Group("/statistics")
	statistics.GET("/monthly", statisticsHandler.Monthly)
	statistics.GET("/yearly", statisticsHandler.Yearly)
	statistics.GET("/categories", statisticsHandler.Categories)

	log.Infof("Starting Moneta backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
