// internal/router/router_test.go
package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aryanmiramini/shopyar-backend/internal/config"
)

// The method+path surface is a contract with the frontend proxy layer, so
// renaming a route is a breaking change even when a handler still exists
// somewhere else.
func TestRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:routertest?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.Frontend.BaseURL = "http://localhost:3000"

	r := Initialize(db, cfg)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/request-otp",
		"POST /api/v1/auth/verify-otp",
		"POST /api/v1/auth/forgot-password",
		"POST /api/v1/auth/reset-password",
		"GET /api/v1/auth/me",

		"GET /api/v1/products",
		"GET /api/v1/products/featured",
		"GET /api/v1/products/:id",
		"GET /api/v1/products/:id/reviews",
		"POST /api/v1/products",
		"PATCH /api/v1/products/:id",
		"DELETE /api/v1/products/:id",
		"POST /api/v1/products/:id/images",

		"GET /api/v1/categories",
		"GET /api/v1/categories/:id",
		"POST /api/v1/categories",
		"PATCH /api/v1/categories/:id",
		"DELETE /api/v1/categories/:id",

		"POST /api/v1/cart/add",
		"GET /api/v1/cart/summary",
		"DELETE /api/v1/cart/clear",
		"PATCH /api/v1/cart/items/:itemId",
		"DELETE /api/v1/cart/items/:itemId",

		"POST /api/v1/orders",
		"GET /api/v1/orders/my-orders",
		"GET /api/v1/orders/all",
		"GET /api/v1/orders/stats/overview",
		"GET /api/v1/orders/:id",
		"PATCH /api/v1/orders/:id/status",
		"PATCH /api/v1/orders/:id/cancel",

		"POST /api/v1/payments/intent",
		"POST /api/v1/payments/confirm",

		"POST /api/v1/reviews",
		"PATCH /api/v1/reviews/:id",
		"DELETE /api/v1/reviews/:id",

		"GET /api/v1/wishlist",
		"POST /api/v1/wishlist",
		"GET /api/v1/wishlist/check/:productId",
		"DELETE /api/v1/wishlist/:productId",

		"GET /api/v1/notifications",
		"GET /api/v1/notifications/unread-count",
		"PATCH /api/v1/notifications/read-all",
		"PATCH /api/v1/notifications/:id/read",

		"GET /health",
	}
	for _, route := range expected {
		require.True(t, registered[route], "route not registered: %s", route)
	}
}
