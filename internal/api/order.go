package api

import (
	"context"                      // Context for Redis operations
	"net/http"                     // HTTP status codes
	"time"                         // Date parsing and durations
	"homeservices/internal/domain" // Importing domain models
	"homeservices/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ServiceEntry is one requested line item in a booking submission. The entry
// resolves to a catalog service by id when given, else by unique name.
type ServiceEntry struct {
	ID    string  `json:"id"`    // Catalog service ID, preferred
	Name  string  `json:"name"`  // Catalog service name, fallback
	Units int     `json:"units"` // Quantity, positive
	Cost  float64 `json:"cost"`  // Total price for this line
}

// Request struct for order creation
type CreateOrderRequest struct {
	Address     string         `json:"address"`     // Service address, required
	Date        string         `json:"date"`        // Service date, required
	Time        string         `json:"time"`        // Slot label, required
	Services    []ServiceEntry `json:"services"`    // Requested line items, at least one
	Status      string         `json:"status"`      // Optional initial status, defaults to PENDING
	Description *string        `json:"description"` // Optional booking notes
}

// Request struct for rescheduling
type RescheduleOrderRequest struct {
	OrderID string `json:"orderId"` // Order to move
	Date    string `json:"date"`    // New service date
	Time    string `json:"time"`    // New slot label
}

// parseOrderDate accepts the date formats the clients actually send
func parseOrderDate(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true // Parsed successfully
		}
	}
	return time.Time{}, false // No layout matched
}

// CreateOrderHandler turns a booking submission into a persisted Order plus
// its line items and schedule record, all inside one transaction so a partial
// failure cannot leave an orphaned order behind.
func CreateOrderHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var req CreateOrderRequest // Bind JSON request to struct
		// Non-numeric units/cost fail the bind and land here as well
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
			return
		}
		// Address, date, time and at least one service entry are required
		if req.Address == "" || req.Date == "" || req.Time == "" || len(req.Services) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
			return
		}
		// Parse the service date
		date, ok := parseOrderDate(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
			return
		}
		// Default and validate the initial status
		status := req.Status
		if status == "" {
			status = domain.OrderStatusPending // Status defaults to PENDING
		}
		if !domain.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
			return
		}
		// Resolve every requested entry to a catalog service before touching
		// the order tables, so validation failures cost nothing
		resolved := make([]domain.OrderService, 0, len(req.Services))
		for _, entry := range req.Services {
			// Each entry must name a service and carry a positive quantity
			if (entry.ID == "" && entry.Name == "") || entry.Units <= 0 || entry.Cost < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid service data"})
				return
			}
			var service domain.Service // Catalog service to resolve against
			if entry.ID != "" {
				// Resolve by ID first
				if err := db.First(&service, "id = ?", entry.ID).Error; err != nil {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service '" + entry.ID + "' not found"})
					return
				}
			} else {
				// Fall back to the unique name
				if err := db.Where("name = ?", entry.Name).First(&service).Error; err != nil {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service '" + entry.Name + "' not found"})
					return
				}
			}
			resolved = append(resolved, domain.OrderService{
				ServiceID: service.ID, // Resolved catalog service
				Units:     entry.Units, // Requested quantity
				Cost:      entry.Cost,  // Caller-supplied line total
			})
		}
		// Build the order
		order := domain.Order{
			UserID:      userID.(string), // Owner from the session
			Address:     req.Address,     // Service address
			Date:        date,            // Service date
			Time:        req.Time,        // Slot label
			Status:      status,          // Initial status
			Description: req.Description, // Optional notes
		}
		orderServices := make([]domain.OrderService, 0, len(resolved))
		// One transaction for the order, its line items and the schedule
		// record; any failure rolls the whole booking back
		err := db.Transaction(func(tx *gorm.DB) error {
			// Create the order row
			if err := tx.Create(&order).Error; err != nil {
				return err // Return error to rollback
			}
			// Create one line item per resolved service
			for _, item := range resolved {
				item.OrderID = order.ID // Link to the new order
				if err := tx.Create(&item).Error; err != nil {
					return err // Return error to rollback
				}
				orderServices = append(orderServices, item)
			}
			// Create the schedule record alongside the order
			booking := domain.Booking{OrderID: order.ID, ScheduledAt: date}
			if err := tx.Create(&booking).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Booking owner
				"date":    req.Date,    // Requested date
				"error":   err.Error(), // Error message
			}).Error("Order creation failed") // Log booking failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		// Log the new booking
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,              // Booking owner
			"order_id": order.ID,            // New order ID
			"items":    len(orderServices),  // Line item count
			"status":   order.Status,        // Initial status
		}).Info("Order created")
		// The default top-services ranking is stale now; other variants age
		// out with their TTL
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, utils.TopServicesCacheKey(6, ""))
		// Return the created order and its line items
		c.JSON(http.StatusCreated, gin.H{
			"success":       true,                          // Envelope flag
			"message":       "Order created successfully",  // Human-readable outcome
			"order":         order,                         // The created order
			"orderServices": orderServices,                 // The created line items
		})
	}
}

// FetchOrdersHandler lists the caller's orders, optionally filtered to one
// status, newest service date first, with nested line items and services
func FetchOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUserID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		// The userId query parameter must match the session owner
		requestedUserID := c.Query("userId")
		if requestedUserID != sessionUserID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized to access this user's orders"})
			return
		}
		query := db.Where("user_id = ?", requestedUserID) // Scope to the owner
		// Apply the optional status filter
		if status := c.Query("status"); status != "" {
			if !domain.ValidOrderStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status filter"})
				return
			}
			query = query.Where("status = ?", status) // Filter to one status
		}
		var orders []domain.Order // Slice to hold orders
		// Fetch with nested line items, services and categories, newest first
		if err := query.
			Preload("OrderServices.Service.ServiceCategory").
			Order("date desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		// Return the orders with a count
		c.JSON(http.StatusOK, gin.H{
			"success": true,                         // Envelope flag
			"message": "Orders fetched successfully", // Human-readable outcome
			"orders":  orders,                       // The caller's orders
			"count":   len(orders),                  // Convenience count
		})
	}
}

// GetOrderHandler fetches one order with nested line items, enforcing that
// only the owner can read it
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUserID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		orderID := c.Query("orderId") // Target order
		if orderID == "" {
			// The order ID is required
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order ID is required"})
			return
		}
		var order domain.Order // Order struct to hold data
		// Fetch the order with all related services
		if err := db.
			Preload("OrderServices.Service.ServiceCategory").
			First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		// Verify the caller owns this order
		if order.UserID != sessionUserID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to access this order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order}) // Return the order
	}
}

// RescheduleOrderHandler moves an order's date and time. Only PENDING and
// BOOKED orders may move; the schedule record follows in the same transaction.
func RescheduleOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUserID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var req RescheduleOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.Date == "" || req.Time == "" {
			// Every field is required
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
			return
		}
		// Parse the new service date
		date, ok := parseOrderDate(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
			return
		}
		var order domain.Order // Fetch the order with its schedule record
		if err := db.Preload("Booking").First(&order, "id = ?", req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		// Verify the caller owns this order
		if order.UserID != sessionUserID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to modify this order"})
			return
		}
		// Only PENDING and BOOKED orders can still move
		if !order.CanReschedule() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot reschedule an order with status: " + order.Status})
			return
		}
		// Update the order and its schedule record together
		err := db.Transaction(func(tx *gorm.DB) error {
			// Apply the new date and time to the order
			if err := tx.Model(&order).Updates(map[string]any{"date": date, "time": req.Time}).Error; err != nil {
				return err // Return error to rollback
			}
			// Keep the schedule record in step, when one exists
			if order.Booking != nil {
				if err := tx.Model(order.Booking).Update("scheduled_at", date).Error; err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"order_id": req.OrderID, // Target order
				"user_id":  sessionUserID, // Caller
				"error":    err.Error(),  // Error message
			}).Error("Reschedule failed") // Log reschedule failure
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An error occurred while rescheduling the order"})
			return
		}
		order.Date = date    // Reflect the new date in the response
		order.Time = req.Time // Reflect the new slot label
		// Log the reschedule
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,  // Moved order
			"user_id":  order.UserID, // Owner
			"date":     req.Date,  // New date
			"time":     req.Time,  // New slot label
		}).Info("Order rescheduled")
		// Return the updated order
		c.JSON(http.StatusOK, gin.H{
			"success": true,                             // Envelope flag
			"message": "Order rescheduled successfully", // Human-readable outcome
			"order":   order,                            // The updated order
		})
	}
}
