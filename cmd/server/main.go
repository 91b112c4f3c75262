package main

import (
	"context"                          // context package is needed for Redis operations
	"log"                              // log package is needed for logging
	"homeservices/internal/api"        // Custom package for API handlers
	"homeservices/internal/config"     // Custom package for configuration
	"homeservices/internal/middleware" // Custom package for middleware

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	apiGroup := r.Group("/api") // All routes live under /api

	// Auth routes
	apiGroup.POST("/auth/register", api.RegisterHandler(db))            // Registration endpoint
	apiGroup.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret))   // Login endpoint

	// Public catalog routes
	apiGroup.GET("/service-categories", api.ListCategoriesHandler(db, redisClient))   // List categories endpoint
	apiGroup.GET("/service-categories/:id", api.GetCategoryHandler(db))               // Fetch one category endpoint
	apiGroup.GET("/services", api.ListServicesHandler(db, redisClient))               // List services endpoint
	apiGroup.GET("/services/:id", api.GetServiceHandler(db))                          // Fetch one service endpoint
	apiGroup.GET("/top-services", api.TopServicesHandler(db, redisClient))            // Ranked services endpoint
	apiGroup.GET("/location/geocoding", api.GeocodingHandler(cfg.GeocodingAPIKey))    // Reverse geocoding endpoint

	// Admin catalog routes (protected, admin only)
	adminGroup := apiGroup.Group("")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.POST("/service-categories", api.CreateCategoryHandler(db, redisClient))        // Create category endpoint
	adminGroup.PATCH("/service-categories/:id", api.UpdateCategoryHandler(db, redisClient))   // Update category endpoint
	adminGroup.DELETE("/service-categories/:id", api.DeleteCategoryHandler(db, redisClient))  // Remove category endpoint
	adminGroup.POST("/services", api.CreateServiceHandler(db, redisClient))                   // Create service endpoint
	adminGroup.PATCH("/services/:id", api.UpdateServiceHandler(db, redisClient))              // Update service endpoint
	adminGroup.DELETE("/services/:id", api.DeleteServiceHandler(db, redisClient))             // Remove service endpoint

	// User routes (protected by JWT)
	userGroup := apiGroup.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.POST("/order", api.CreateOrderHandler(db, redisClient))          // Create order endpoint
	userGroup.GET("/fetchOrder", api.FetchOrdersHandler(db))                   // List caller's orders endpoint
	userGroup.GET("/order/getOrder", api.GetOrderHandler(db))                  // Fetch one order endpoint
	userGroup.POST("/order/rescheduleOrder", api.RescheduleOrderHandler(db))   // Reschedule order endpoint
	userGroup.GET("/addresses", api.ListAddressesHandler(db))                  // List addresses endpoint
	userGroup.POST("/addresses", api.CreateAddressHandler(db))                 // Create address endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
