package api

import (
	"context"                      // Context for Redis operations
	"net/http"                     // HTTP status codes
	"sort"                         // Re-sorting after the category filter
	"strconv"                      // String conversion
	"time"                         // Time durations
	"homeservices/internal/domain" // Importing domain models
	"homeservices/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// serviceAggregate holds one group from the line-item aggregation
type serviceAggregate struct {
	ServiceID   string  `json:"serviceId"`   // Grouped service ID
	OrdersCount int64   `json:"ordersCount"` // Number of line items referencing the service
	TotalUnits  int64   `json:"totalUnits"`  // Sum of units across those line items
	TotalCost   float64 `json:"totalCost"`   // Sum of cost across those line items
}

// TopServiceEntry is one ranked entry in the top-services response
type TopServiceEntry struct {
	ID          string       `json:"id"`                 // Service ID
	Name        string       `json:"name"`               // Service name, or the placeholder
	Description string       `json:"description"`        // Service description
	ImageURL    *string      `json:"imageURL,omitempty"` // Optional image reference
	Amount      float64      `json:"amount"`             // Unit price
	Category    *CategoryRef `json:"category"`           // Owning category, nil when unresolvable
	OrdersCount int64        `json:"ordersCount"`        // Ranking key
	TotalUnits  int64        `json:"totalUnits"`         // Sum of ordered units
	TotalCost   float64      `json:"totalCost"`          // Sum of ordered cost
}

// CategoryRef is the trimmed category reference attached to a ranked entry
type CategoryRef struct {
	ID   string `json:"id"`   // Category ID
	Name string `json:"name"` // Category name
}

// TopServicesHandler ranks services by how often they appear on order line
// items: count of line items per service, with unit and cost sums, descending
// by count and truncated to the limit. A categoryId filter is applied after
// the aggregation, so a filtered result may hold fewer than limit entries.
func TopServicesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 6 // Default number of groups
		if l := c.Query("limit"); l != "" {
			// Convert limit to integer
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v // Set limit if valid
			}
		}
		categoryID := c.Query("categoryId") // Optional category filter
		ctx := context.Background()         // Context for Redis operations
		cacheKey := utils.TopServicesCacheKey(limit, categoryID)
		var cached []TopServiceEntry // Cached ranking, if present
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			// Return the cached ranking
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
			return
		}
		var aggregates []serviceAggregate // Aggregation results
		// Group line items by service, ranked by how many line items exist
		if err := db.Model(&domain.OrderService{}).
			Select("service_id, COUNT(*) as orders_count, SUM(units) as total_units, SUM(cost) as total_cost").
			Group("service_id").
			Order("orders_count desc").
			Limit(limit).
			Scan(&aggregates).Error; err != nil {
			// If the aggregation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error."})
			return
		}
		// No line items at all means nothing to rank
		if len(aggregates) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No ordered services found."})
			return
		}
		// Collect the grouped service IDs
		serviceIDs := make([]string, len(aggregates))
		for i, a := range aggregates {
			serviceIDs[i] = a.ServiceID // Grouped service ID
		}
		// Fetch the matching services in one query, with categories attached
		query := db.Preload("ServiceCategory").Where("id IN ?", serviceIDs)
		if categoryID != "" {
			query = query.Where("service_category_id = ?", categoryID) // Apply the category filter
		}
		var services []domain.Service // Matching catalog services
		if err := query.Find(&services).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error."})
			return
		}
		// Index the services by ID for the join below
		byID := make(map[string]domain.Service, len(services))
		for _, s := range services {
			byID[s.ID] = s // Service lookup by ID
		}
		// Join each group to its service; dangling service IDs get a
		// placeholder instead of being dropped silently
		result := make([]TopServiceEntry, 0, len(aggregates))
		for _, a := range aggregates {
			service, ok := byID[a.ServiceID]
			if !ok {
				result = append(result, TopServiceEntry{
					ID:          a.ServiceID,                 // Keep the dangling ID
					Name:        "Unknown Service",           // Placeholder name
					Description: "Service details not found", // Placeholder description
					Category:    nil,                         // No category resolvable
					OrdersCount: a.OrdersCount,               // Ranking key
					TotalUnits:  a.TotalUnits,                // Sum of units
					TotalCost:   a.TotalCost,                 // Sum of cost
				})
				continue
			}
			result = append(result, TopServiceEntry{
				ID:          service.ID,          // Service ID
				Name:        service.Name,        // Service name
				Description: service.Description, // Service description
				ImageURL:    service.ImageURL,    // Optional image reference
				Amount:      service.Amount,      // Unit price
				Category: &CategoryRef{
					ID:   service.ServiceCategory.ID,   // Category ID
					Name: service.ServiceCategory.Name, // Category name
				},
				OrdersCount: a.OrdersCount, // Ranking key
				TotalUnits:  a.TotalUnits,  // Sum of units
				TotalCost:   a.TotalCost,   // Sum of cost
			})
		}
		// Drop entries outside the requested category; placeholders carry no
		// category and fall away under a filter
		if categoryID != "" {
			filtered := result[:0]
			for _, entry := range result {
				if entry.Category != nil && entry.Category.ID == categoryID {
					filtered = append(filtered, entry) // Keep in-category entries
				}
			}
			result = filtered
		}
		// Restore the ranking after the filter
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].OrdersCount > result[j].OrdersCount // Descending by count
		})
		_ = utils.SetCache(ctx, rdb, cacheKey, result, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"success": true, "data": result, "cached": false})
	}
}
