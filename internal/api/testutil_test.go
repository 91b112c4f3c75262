package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"homeservices/internal/api"
	"homeservices/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Address{},
		&domain.ServiceCategory{},
		&domain.Service{},
		&domain.Order{},
		&domain.OrderService{},
		&domain.Booking{},
	))
	return db
}

// testRedis returns a client pointing at a closed port; every cache lookup
// misses and every write is dropped, so handlers exercise their DB path
func testRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

// authAs stands in for the JWT middleware by pinning the session user
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// newTestRouter returns a bare Gin engine in test mode
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// doJSON performs a request with an optional JSON body and returns the recorder
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// seedUser inserts a user and returns it
func seedUser(t *testing.T, db *gorm.DB, email string) domain.User {
	t.Helper()
	user := domain.User{Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedCategory inserts a service category and returns it
func seedCategory(t *testing.T, db *gorm.DB, name string) domain.ServiceCategory {
	t.Helper()
	category := domain.ServiceCategory{Name: name, Description: name + " work"}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// seedService inserts a catalog service and returns it
func seedService(t *testing.T, db *gorm.DB, categoryID, name string, amount float64) domain.Service {
	t.Helper()
	service := domain.Service{Name: name, Description: name + " details", Amount: amount, ServiceCategoryID: categoryID}
	require.NoError(t, db.Create(&service).Error)
	return service
}

// orderRoutes mounts the order and address handlers behind a pinned session
func orderRoutes(db *gorm.DB, userID string) *gin.Engine {
	r := newTestRouter()
	user := r.Group("/api/user", authAs(userID))
	user.POST("/order", api.CreateOrderHandler(db, testRedis()))
	user.GET("/fetchOrder", api.FetchOrdersHandler(db))
	user.GET("/order/getOrder", api.GetOrderHandler(db))
	user.POST("/order/rescheduleOrder", api.RescheduleOrderHandler(db))
	user.GET("/addresses", api.ListAddressesHandler(db))
	user.POST("/addresses", api.CreateAddressHandler(db))
	return r
}
