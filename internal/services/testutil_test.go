// internal/services/testutil_test.go
package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aryanmiramini/shopyar-backend/internal/config"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// Each call gets its own database so tests stay isolated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// An in-memory database exists per connection, keep a single one
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.WishlistItem{},
		&models.Notification{},
		&models.OTPCode{},
	))

	return db
}

func testConfig() *config.Config {
	utils.SetJWTSecret("test-secret")
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
		Payment: config.PaymentConfig{Currency: "irr"},
		SMS:     config.SMSConfig{Sender: "Shopyar"},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:  &email,
		Role:   models.UserRoleCustomer,
		Status: models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("secret1234"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, quantity int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		SKU:      fmt.Sprintf("SKU-%s", uuid.New().String()[:8]),
		Price:    price,
		Quantity: quantity,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status models.OrderStatus, items ...models.OrderItem) *models.Order {
	t.Helper()

	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal
	}

	order := &models.Order{
		OrderNumber: fmt.Sprintf("SY-TEST-%s", uuid.New().String()[:8]),
		UserID:      userID,
		Status:      status,
		Subtotal:    subtotal,
		Total:       subtotal,
		Items:       items,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// fakeSMSSender records messages for assertions instead of hitting a gateway.
type fakeSMSSender struct {
	mu       sync.Mutex
	otpCodes map[string]string
	shipping []string
}

func newFakeSMSSender() *fakeSMSSender {
	return &fakeSMSSender{otpCodes: make(map[string]string)}
}

func (f *fakeSMSSender) SendOTP(phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otpCodes[phone] = code
	return nil
}

func (f *fakeSMSSender) SendShippingUpdate(phone, orderNumber, trackingNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shipping = append(f.shipping, orderNumber)
	return nil
}

func (f *fakeSMSSender) lastOTP(phone string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otpCodes[phone]
}
