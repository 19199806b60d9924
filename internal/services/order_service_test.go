// internal/services/order_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	orders  *OrderService
	cart    *CartService
	user    *models.User
	product *models.Product
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.orders = NewOrderService(suite.db)
	suite.cart = NewCartService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "buyer@example.com")
	suite.product = createTestProduct(suite.T(), suite.db, "Keyboard", 1500000, 10)
}

func (suite *OrderServiceTestSuite) placeRequest(quantity int) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: suite.product.ID, Quantity: quantity},
		},
		ShippingName:    "Test Buyer",
		ShippingPhone:   "09123456789",
		ShippingAddress: "Valiasr St 1",
		ShippingCity:    "Tehran",
	}
}

func (suite *OrderServiceTestSuite) TestPlaceOrderFreezesPricesAndDecrementsStock() {
	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(3))
	suite.Require().NoError(err)

	suite.Equal(models.OrderStatusPending, order.Status)
	suite.Len(order.Items, 1)
	suite.Equal(suite.product.Price, order.Items[0].Price)
	suite.Equal(suite.product.Price*3, order.Items[0].Subtotal)
	suite.Equal(order.Subtotal, order.Items[0].Subtotal)
	suite.Equal(order.Subtotal+order.Tax+order.Shipping, order.Total)
	suite.NotEmpty(order.OrderNumber)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", suite.product.ID).Error)
	suite.Equal(7, product.Quantity)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInsufficientStockRollsBack() {
	_, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(11))
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeInsufficientStock, appErr.Code)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", suite.product.ID).Error)
	suite.Equal(10, product.Quantity)

	var orderCount int64
	suite.db.Model(&models.Order{}).Count(&orderCount)
	suite.Zero(orderCount)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderMultiLineRollbackRestoresFirstLine() {
	second := createTestProduct(suite.T(), suite.db, "Mouse", 500000, 1)

	req := suite.placeRequest(2)
	req.Items = append(req.Items, OrderItemRequest{ProductID: second.ID, Quantity: 5})

	_, err := suite.orders.PlaceOrder(suite.user.ID, req)
	suite.Require().Error(err)

	// First line's decrement must be rolled back with the transaction
	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", suite.product.ID).Error)
	suite.Equal(10, product.Quantity)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderClearsCart() {
	_, err := suite.cart.AddItem(suite.user.ID, &AddCartItemRequest{
		ProductID: suite.product.ID,
		Quantity:  2,
	})
	suite.Require().NoError(err)

	_, err = suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(2))
	suite.Require().NoError(err)

	summary, err := suite.cart.GetSummary(suite.user.ID)
	suite.Require().NoError(err)
	suite.Empty(summary.Items)
}

func (suite *OrderServiceTestSuite) TestConcurrentPlacementNeverOversells() {
	limited := createTestProduct(suite.T(), suite.db, "Limited", 900000, 5)

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = suite.orders.PlaceOrder(suite.user.ID, &PlaceOrderRequest{
				Items:           []OrderItemRequest{{ProductID: limited.ID, Quantity: 1}},
				ShippingName:    "Test Buyer",
				ShippingPhone:   "09123456789",
				ShippingAddress: "Valiasr St 1",
				ShippingCity:    "Tehran",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	suite.LessOrEqual(succeeded, 5)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", limited.ID).Error)
	suite.GreaterOrEqual(product.Quantity, 0)
	suite.Equal(5-succeeded, product.Quantity)
}

func (suite *OrderServiceTestSuite) TestStatusTransitionsFollowStateMachine() {
	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)

	// pending -> delivered skips shipping and is rejected
	_, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	suite.Require().Error(err)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeInvalidStatusTransition, appErr.Code)

	updated, err := suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusPaid, updated.Status)
	suite.NotNil(updated.PaidAt)

	updated, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{
		Status:         models.OrderStatusShipped,
		TrackingNumber: "TRK-100",
	})
	suite.Require().NoError(err)
	suite.Equal("TRK-100", updated.TrackingNumber)

	updated, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	suite.Require().NoError(err)
	suite.NotNil(updated.DeliveredAt)

	// delivered is past the point of cancellation
	_, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	suite.Require().Error(err)
}

func (suite *OrderServiceTestSuite) TestCancelRestoresStock() {
	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(4))
	suite.Require().NoError(err)

	cancelled, err := suite.orders.CancelOrder(order.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusCancelled, cancelled.Status)
	suite.NotNil(cancelled.CancelledAt)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", suite.product.ID).Error)
	suite.Equal(10, product.Quantity)
}

func (suite *OrderServiceTestSuite) TestCancelRejectedAfterShipping() {
	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)

	_, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
	suite.Require().NoError(err)
	_, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	suite.Require().NoError(err)

	_, err = suite.orders.CancelOrder(order.ID, suite.user.ID)
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeOrderNotCancellable, appErr.Code)
}

func (suite *OrderServiceTestSuite) TestCancelOnlyByOwner() {
	other := createTestUser(suite.T(), suite.db, "other@example.com")

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)

	_, err = suite.orders.CancelOrder(order.ID, other.ID)
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeOrderNotFound, appErr.Code)
}

func (suite *OrderServiceTestSuite) TestMarkPaidIsIdempotent() {
	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)

	paid, err := suite.orders.MarkPaid(order.ID, "pi_123")
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusPaid, paid.Status)
	suite.Equal("pi_123", paid.PaymentRef)

	again, err := suite.orders.MarkPaid(order.ID, "pi_123")
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusPaid, again.Status)
}

func (suite *OrderServiceTestSuite) TestGetOrderScopedToOwnerUnlessAdmin() {
	other := createTestUser(suite.T(), suite.db, "intruder@example.com")

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)

	_, err = suite.orders.GetOrder(order.ID, other.ID, false)
	suite.Require().Error(err)

	fetched, err := suite.orders.GetOrder(order.ID, other.ID, true)
	suite.Require().NoError(err)
	suite.Equal(order.ID, fetched.ID)
}

func (suite *OrderServiceTestSuite) TestStatsCountTodayByLocalDay() {
	paid := createTestOrder(suite.T(), suite.db, suite.user.ID, models.OrderStatusPaid, models.OrderItem{
		ProductID: suite.product.ID,
		Quantity:  1,
		Price:     1500000,
		Subtotal:  1500000,
	})

	// An order from late yesterday evening, local time, must not count as
	// today even in zones ahead of UTC.
	now := time.Now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(-time.Hour)
	old := createTestOrder(suite.T(), suite.db, suite.user.ID, models.OrderStatusPending)
	suite.Require().NoError(suite.db.Model(old).UpdateColumn("created_at", yesterday).Error)

	stats, err := suite.orders.GetStatsOverview()
	suite.Require().NoError(err)
	suite.Equal(int64(2), stats.TotalOrders)
	suite.Equal(int64(1), stats.OrdersToday)
	suite.Equal(paid.Total, stats.TotalRevenue)
	suite.Equal(int64(1), stats.CountByStatus[models.OrderStatusPaid])
	suite.Equal(int64(1), stats.CountByStatus[models.OrderStatusPending])
}

func (suite *OrderServiceTestSuite) TestListenerReceivesStatusChanges() {
	var mu sync.Mutex
	var events []OrderEvent
	done := make(chan struct{}, 4)

	suite.orders.AddListener(listenerFunc(func(evt OrderEvent) {
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		done <- struct{}{}
	}))

	order, err := suite.orders.PlaceOrder(suite.user.ID, suite.placeRequest(1))
	suite.Require().NoError(err)
	<-done

	_, err = suite.orders.UpdateStatus(order.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
	suite.Require().NoError(err)
	<-done

	mu.Lock()
	defer mu.Unlock()
	suite.Require().Len(events, 2)
	suite.Equal(models.OrderStatus(""), events[0].Previous)
	suite.Equal(models.OrderStatusPending, events[1].Previous)
	suite.Equal(models.OrderStatusPaid, events[1].Order.Status)
}

type listenerFunc func(OrderEvent)

func (f listenerFunc) OrderStatusChanged(evt OrderEvent) { f(evt) }

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusPaid, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusReturned, true},
		{models.OrderStatusReturned, models.OrderStatusRefunded, true},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusRefunded, models.OrderStatusPaid, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
