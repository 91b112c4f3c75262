package api

import (
	"net/http"                     // HTTP status codes
	"homeservices/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for address creation
type CreateAddressRequest struct {
	Name      string `json:"name" binding:"required"`    // Display name must be provided
	Address   string `json:"address" binding:"required"` // Free-text address must be provided
	IsDefault bool   `json:"isDefault"`                  // Whether this becomes the default location
}

// ListAddressesHandler returns the caller's saved addresses, newest first
func ListAddressesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var addresses []domain.Address // Slice to hold addresses
		// Fetch the caller's addresses, most recently created first
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&addresses).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses}) // Return the addresses
	}
}

// CreateAddressHandler saves a new address for the caller. When the new
// address is the default, the previous default is cleared in the same
// transaction so at most one default ever exists per user.
func CreateAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var req CreateAddressRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Name and address are required"})
			return
		}
		// Build the new address
		address := domain.Address{
			UserID:    userID.(string), // Owner from the session
			Name:      req.Name,        // Display name
			Address:   req.Address,     // Free-text address
			IsDefault: req.IsDefault,   // Default-location flag
		}
		// Clear-then-set runs inside one transaction so two concurrent
		// "set default" requests cannot leave two defaults behind
		err := db.Transaction(func(tx *gorm.DB) error {
			if req.IsDefault {
				// Clear the previous default for this user
				if err := tx.Model(&domain.Address{}).
					Where("user_id = ? AND is_default = ?", userID, true).
					Update("is_default", false).Error; err != nil {
					return err // Return error to rollback
				}
			}
			// Insert the new address
			if err := tx.Create(&address).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Address owner
				"error":   err.Error(), // Error message
			}).Error("Address creation failed") // Log address failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		// Return the created address
		c.JSON(http.StatusCreated, gin.H{
			"success": true,                           // Envelope flag
			"message": "Address created successfully", // Human-readable outcome
			"address": address,                        // The created address
		})
	}
}
