package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"homeservices/internal/domain"
	"homeservices/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func adminTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, db
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r, db := adminTestRouter(t)

	admin := domain.User{Email: "admin@example.com", Password: "x", Role: "admin"}
	require.NoError(t, db.Create(&admin).Error)
	regular := domain.User{Email: "user@example.com", Password: "x", Role: "user"}
	require.NoError(t, db.Create(&regular).Error)

	// Pin the session user through a query parameter so each case can pick one
	r.GET("/admin-only", func(c *gin.Context) {
		if id := c.Query("as"); id != "" {
			c.Set("userID", id)
		}
		c.Next()
	}, middleware.AdminOnlyMiddleware(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("no_session_is_unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("regular_user_is_forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only?as="+regular.ID, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown_user_is_forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only?as=nope", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin_passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only?as="+admin.ID, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
