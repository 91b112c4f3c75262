package api

import (
	"context"                      // Context for Redis operations
	"net/http"                     // HTTP status codes
	"time"                         // Time durations
	"homeservices/internal/domain" // Importing domain models
	"homeservices/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for service creation
type CreateServiceRequest struct {
	Name              string  `json:"name" binding:"required"`              // Service name must be provided
	Description       string  `json:"description" binding:"required"`       // Description must be provided
	ServiceCategoryID string  `json:"serviceCategoryId" binding:"required"` // Owning category must be provided
	Amount            float64 `json:"amount"`                               // Unit price, defaults to 0
	ImageURL          *string `json:"imageURL"`                             // Optional image reference
}

// Request struct for service updates; every field is optional
type UpdateServiceRequest struct {
	Name              *string  `json:"name"`              // New name, if changing
	Description       *string  `json:"description"`       // New description, if changing
	ServiceCategoryID *string  `json:"serviceCategoryId"` // New category, if moving
	Amount            *float64 `json:"amount"`            // New unit price, if changing
	ImageURL          *string  `json:"imageURL"`          // New image reference, if changing
}

// ListServicesHandler returns all services, optionally filtered by category,
// ordered by name with each service's category attached
func ListServicesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Query("categoryId")                 // Optional category filter
		ctx := context.Background()                         // Context for Redis operations
		cacheKey := utils.ServicesCacheKey(categoryID)      // Cache key per filter
		var services []domain.Service                       // Slice to hold services
		found, err := utils.GetCache(ctx, rdb, cacheKey, &services) // Try cache first
		if err == nil && found {
			// Return cached services
			c.JSON(http.StatusOK, gin.H{"success": true, "services": services, "cached": true})
			return
		}
		query := db.Preload("ServiceCategory").Order("name asc") // Attach categories, name ascending
		if categoryID != "" {
			query = query.Where("service_category_id = ?", categoryID) // Apply the category filter
		}
		// Fetch from DB
		if err := query.Find(&services).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch services"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, services, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"success": true, "services": services, "cached": false})
	}
}

// GetServiceHandler returns one service with its category
func GetServiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service domain.Service // Service struct to hold data
		// Fetch the service with its category preloaded
		if err := db.Preload("ServiceCategory").First(&service, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "service": service}) // Return the service
	}
}

// CreateServiceHandler creates a new catalog service
func CreateServiceHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateServiceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name, description, and service category are required"})
			return
		}
		// Unit price must be non-negative
		if req.Amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount must be non-negative"})
			return
		}
		// Validate that the category exists
		var category domain.ServiceCategory
		if err := db.First(&category, "id = ?", req.ServiceCategoryID).Error; err != nil {
			// If the category is missing, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service category not found"})
			return
		}
		// Check for duplicate name first for a clear message; the unique
		// column constraint stays the authority under concurrency
		var existing domain.Service
		if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
			// If a service with this name exists, return conflict
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service with this name already exists"})
			return
		}
		// Create the new service
		service := domain.Service{
			Name:              req.Name,              // Service name
			Description:       req.Description,       // Service description
			ServiceCategoryID: req.ServiceCategoryID, // Owning category
			Amount:            req.Amount,            // Unit price
			ImageURL:          req.ImageURL,          // Optional image reference
		}
		if err := db.Create(&service).Error; err != nil {
			// A concurrent create can still trip the unique constraint
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service with this name already exists"})
			return
		}
		service.ServiceCategory = category // Attach the category to the response
		// Log the catalog mutation
		logrus.WithFields(logrus.Fields{
			"service_id":  service.ID,            // New service ID
			"name":        service.Name,          // Service name
			"category_id": category.ID,           // Owning category
		}).Info("Service created")
		invalidateCatalogCache(rdb, service.ServiceCategoryID) // Drop stale listings
		// Return the created service
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Service created successfully", "service": service})
	}
}

// UpdateServiceHandler applies a partial update to a catalog service
func UpdateServiceHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateServiceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}
		var service domain.Service // Fetch the existing service
		if err := db.First(&service, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
			return
		}
		previousCategoryID := service.ServiceCategoryID // Remember the old category for cache invalidation
		// Check for duplicate name if the name is being changed
		if req.Name != nil && *req.Name != service.Name {
			var duplicate domain.Service
			if err := db.Where("name = ?", *req.Name).First(&duplicate).Error; err == nil {
				// If another service holds this name, return conflict
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service with this name already exists"})
				return
			}
			service.Name = *req.Name // Apply the new name
		}
		// Validate the new category if the service is being moved
		if req.ServiceCategoryID != nil && *req.ServiceCategoryID != service.ServiceCategoryID {
			var category domain.ServiceCategory
			if err := db.First(&category, "id = ?", *req.ServiceCategoryID).Error; err != nil {
				// If the target category is missing, return not found
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service category not found"})
				return
			}
			service.ServiceCategoryID = *req.ServiceCategoryID // Apply the new category
		}
		// Apply the remaining optional fields
		if req.Description != nil {
			service.Description = *req.Description // Apply the new description
		}
		if req.Amount != nil {
			// Unit price must stay non-negative
			if *req.Amount < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount must be non-negative"})
				return
			}
			service.Amount = *req.Amount // Apply the new unit price
		}
		if req.ImageURL != nil {
			service.ImageURL = req.ImageURL // Apply the new image reference
		}
		// Persist the update
		if err := db.Save(&service).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update service"})
			return
		}
		// Reload the category relation for the response
		_ = db.Preload("ServiceCategory").First(&service, "id = ?", service.ID).Error
		invalidateCatalogCache(rdb, previousCategoryID)        // Drop listings for the old category
		invalidateCatalogCache(rdb, service.ServiceCategoryID) // And the current one
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service updated successfully", "service": service})
	}
}

// DeleteServiceHandler removes a service unless order line items reference it
func DeleteServiceHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service domain.Service // Fetch the existing service
		if err := db.First(&service, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
			return
		}
		var dependents int64 // Count of line items referencing this service
		if err := db.Model(&domain.OrderService{}).Where("service_id = ?", service.ID).Count(&dependents).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete service"})
			return
		}
		// Referential guard: the service must not appear on any order
		if dependents > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cannot delete service with associated orders"})
			return
		}
		// Delete the service
		if err := db.Delete(&service).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete service"})
			return
		}
		// Log the catalog mutation
		logrus.WithFields(logrus.Fields{
			"service_id": service.ID,   // Deleted service ID
			"name":       service.Name, // Service name
		}).Info("Service deleted")
		invalidateCatalogCache(rdb, service.ServiceCategoryID) // Drop stale listings
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted successfully"})
	}
}
