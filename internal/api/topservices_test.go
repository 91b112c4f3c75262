package api_test

import (
	"net/http"
	"testing"

	"homeservices/internal/api"
	"homeservices/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func topServicesRoutes(db *gorm.DB) *gin.Engine {
	r := newTestRouter()
	r.GET("/api/top-services", api.TopServicesHandler(db, testRedis()))
	return r
}

// seedLineItems attaches n line items for one service to a fresh order each
func seedLineItems(t *testing.T, db *gorm.DB, userID, serviceID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		order := domain.Order{UserID: userID, Address: "12 Main St", Time: "10:00 AM", Status: domain.OrderStatusPending}
		require.NoError(t, db.Create(&order).Error)
		require.NoError(t, db.Create(&domain.OrderService{OrderID: order.ID, ServiceID: serviceID, Units: 2, Cost: 50}).Error)
	}
}

func TestTopServices(t *testing.T) {
	t.Run("no_line_items_is_not_found", func(t *testing.T) {
		db := setupTestDB(t)
		r := topServicesRoutes(db)
		w := doJSON(t, r, http.MethodGet, "/api/top-services", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No ordered services found.", decodeBody(t, w)["message"])
	})

	t.Run("ranks_by_line_item_count", func(t *testing.T) {
		db := setupTestDB(t)
		user := seedUser(t, db, "buyer@example.com")
		category := seedCategory(t, db, "Cleaning")
		s1 := seedService(t, db, category.ID, "Deep Clean", 299)
		s2 := seedService(t, db, category.ID, "Window Wash", 49)
		s3 := seedService(t, db, category.ID, "Carpet Steam", 89)
		seedLineItems(t, db, user.ID, s1.ID, 1)
		seedLineItems(t, db, user.ID, s2.ID, 3)
		seedLineItems(t, db, user.ID, s3.ID, 2)

		r := topServicesRoutes(db)
		w := doJSON(t, r, http.MethodGet, "/api/top-services", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]any)
		require.Len(t, data, 3)

		first := data[0].(map[string]any)
		assert.Equal(t, "Window Wash", first["name"])
		assert.Equal(t, float64(3), first["ordersCount"])
		assert.Equal(t, float64(6), first["totalUnits"])
		assert.Equal(t, float64(150), first["totalCost"])
		assert.Equal(t, "Cleaning", first["category"].(map[string]any)["name"])

		assert.Equal(t, "Carpet Steam", data[1].(map[string]any)["name"])
		assert.Equal(t, "Deep Clean", data[2].(map[string]any)["name"])
	})

	t.Run("limit_truncates_groups", func(t *testing.T) {
		db := setupTestDB(t)
		user := seedUser(t, db, "buyer@example.com")
		category := seedCategory(t, db, "Cleaning")
		s1 := seedService(t, db, category.ID, "Deep Clean", 299)
		s2 := seedService(t, db, category.ID, "Window Wash", 49)
		seedLineItems(t, db, user.ID, s1.ID, 2)
		seedLineItems(t, db, user.ID, s2.ID, 1)

		r := topServicesRoutes(db)
		w := doJSON(t, r, http.MethodGet, "/api/top-services?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "Deep Clean", data[0].(map[string]any)["name"])
	})

	t.Run("category_filter_drops_out_of_category_groups", func(t *testing.T) {
		db := setupTestDB(t)
		user := seedUser(t, db, "buyer@example.com")
		cleaning := seedCategory(t, db, "Cleaning")
		plumbing := seedCategory(t, db, "Plumbing")
		s1 := seedService(t, db, cleaning.ID, "Deep Clean", 299)
		s2 := seedService(t, db, plumbing.ID, "Leak Fix", 120)
		seedLineItems(t, db, user.ID, s1.ID, 1)
		seedLineItems(t, db, user.ID, s2.ID, 5)

		r := topServicesRoutes(db)
		w := doJSON(t, r, http.MethodGet, "/api/top-services?categoryId="+cleaning.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]any)
		// The filter runs after the aggregation, so the result may hold
		// fewer entries than the limit
		require.Len(t, data, 1)
		assert.Equal(t, "Deep Clean", data[0].(map[string]any)["name"])
	})

	t.Run("dangling_service_gets_placeholder", func(t *testing.T) {
		db := setupTestDB(t)
		user := seedUser(t, db, "buyer@example.com")
		category := seedCategory(t, db, "Cleaning")
		service := seedService(t, db, category.ID, "Deep Clean", 299)
		seedLineItems(t, db, user.ID, service.ID, 2)
		// Remove the service out from under its line items
		require.NoError(t, db.Delete(&domain.Service{}, "id = ?", service.ID).Error)

		r := topServicesRoutes(db)
		w := doJSON(t, r, http.MethodGet, "/api/top-services", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].([]any)
		require.Len(t, data, 1)
		entry := data[0].(map[string]any)
		assert.Equal(t, "Unknown Service", entry["name"])
		assert.Equal(t, service.ID, entry["id"])
		assert.Nil(t, entry["category"])
	})
}
