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

// Request struct for category creation
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`        // Category name must be provided
	Description string  `json:"description" binding:"required"` // Description must be provided
	ImageURL    *string `json:"imageURL"`                       // Optional image reference
}

// Request struct for category updates; every field is optional
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`        // New name, if changing
	Description *string `json:"description"` // New description, if changing
	ImageURL    *string `json:"imageURL"`    // New image reference, if changing
}

// invalidateCatalogCache drops the cached category and service listings after
// a catalog mutation; the affected top-services variants age out with the TTL
func invalidateCatalogCache(rdb *redis.Client, categoryID string) {
	ctx := context.Background()                                            // Context for Redis operations
	_ = utils.DeleteCache(ctx, rdb, utils.CategoriesCacheKey)              // Drop the categories listing
	_ = utils.DeleteCache(ctx, rdb, utils.ServicesCacheKey(""))            // Drop the unfiltered services listing
	if categoryID != "" {
		_ = utils.DeleteCache(ctx, rdb, utils.ServicesCacheKey(categoryID)) // Drop the filtered services listing
	}
}

// ListCategoriesHandler returns all service categories ordered by name
func ListCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()             // Context for Redis operations
		var categories []domain.ServiceCategory // Slice to hold categories
		// Try to get from cache first
		found, err := utils.GetCache(ctx, rdb, utils.CategoriesCacheKey, &categories)
		if err == nil && found {
			// Return cached categories
			c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories, "cached": true})
			return
		}
		// If not in cache, fetch from DB ordered by name
		if err := db.Order("name asc").Find(&categories).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch service categories"})
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.CategoriesCacheKey, categories, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories, "cached": false})
	}
}

// GetCategoryHandler returns one service category with its services
func GetCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.ServiceCategory // Category struct to hold data
		// Fetch the category with its services preloaded
		if err := db.Preload("Services").First(&category, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "category": category}) // Return the category
	}
}

// CreateCategoryHandler creates a new service category
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and description are required"})
			return
		}
		// Check for duplicate name first for a clear message; the unique
		// column constraint stays the authority under concurrency
		var existing domain.ServiceCategory
		if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
			// If a category with this name exists, return conflict
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service category with this name already exists"})
			return
		}
		// Create the new category
		category := domain.ServiceCategory{
			Name:        req.Name,        // Category name
			Description: req.Description, // Category description
			ImageURL:    req.ImageURL,    // Optional image reference
		}
		if err := db.Create(&category).Error; err != nil {
			// A concurrent create can still trip the unique constraint
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service category with this name already exists"})
			return
		}
		// Log the catalog mutation
		logrus.WithFields(logrus.Fields{
			"category_id": category.ID,   // New category ID
			"name":        category.Name, // Category name
		}).Info("Service category created")
		invalidateCatalogCache(rdb, category.ID) // Drop stale listings
		// Return the created category
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Service category created successfully", "category": category})
	}
}

// UpdateCategoryHandler applies a partial update to a service category
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}
		var category domain.ServiceCategory // Fetch the existing category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service category not found"})
			return
		}
		// Check for duplicate name if the name is being changed
		if req.Name != nil && *req.Name != category.Name {
			var duplicate domain.ServiceCategory
			if err := db.Where("name = ?", *req.Name).First(&duplicate).Error; err == nil {
				// If another category holds this name, return conflict
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A service category with this name already exists"})
				return
			}
			category.Name = *req.Name // Apply the new name
		}
		// Apply the remaining optional fields
		if req.Description != nil {
			category.Description = *req.Description // Apply the new description
		}
		if req.ImageURL != nil {
			category.ImageURL = req.ImageURL // Apply the new image reference
		}
		// Persist the update
		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update service category"})
			return
		}
		invalidateCatalogCache(rdb, category.ID) // Drop stale listings
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service category updated successfully", "category": category})
	}
}

// DeleteCategoryHandler removes a category unless services still reference it
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.ServiceCategory // Fetch the existing category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service category not found"})
			return
		}
		var dependents int64 // Count of services referencing this category
		if err := db.Model(&domain.Service{}).Where("service_category_id = ?", category.ID).Count(&dependents).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete service category"})
			return
		}
		// Referential guard: the category must have no services
		if dependents > 0 {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Cannot delete category with associated services"})
			return
		}
		// Delete the category
		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete service category"})
			return
		}
		// Log the catalog mutation
		logrus.WithFields(logrus.Fields{
			"category_id": category.ID,   // Deleted category ID
			"name":        category.Name, // Category name
		}).Info("Service category deleted")
		invalidateCatalogCache(rdb, category.ID) // Drop stale listings
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service category deleted successfully"})
	}
}
