// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type OrderService struct {
	db        *gorm.DB
	listeners []OrderStatusListener
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items              []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingName       string             `json:"shipping_name" validate:"required,max=200"`
	ShippingPhone      string             `json:"shipping_phone" validate:"required,phone_ir"`
	ShippingAddress    string             `json:"shipping_address" validate:"required"`
	ShippingCity       string             `json:"shipping_city" validate:"required,max=100"`
	ShippingPostalCode string             `json:"shipping_postal_code,omitempty" validate:"omitempty,max=20"`
	Tax                float64            `json:"tax,omitempty" validate:"omitempty,min=0"`
	Shipping           float64            `json:"shipping,omitempty" validate:"omitempty,min=0"`
}

type UpdateOrderStatusRequest struct {
	Status         models.OrderStatus `json:"status" validate:"required"`
	TrackingNumber string             `json:"tracking_number,omitempty" validate:"omitempty,max=64"`
}

type OrderListParams struct {
	utils.PaginationParams
	Status *models.OrderStatus
	UserID *uuid.UUID
}

type OrderStats struct {
	TotalOrders   int64                        `json:"total_orders"`
	OrdersToday   int64                        `json:"orders_today"`
	TotalRevenue  float64                      `json:"total_revenue"`
	CountByStatus map[models.OrderStatus]int64 `json:"count_by_status"`
}

// allowedTransitions is the order status state machine. Cancellation is
// reachable from every pre-shipment state; returns and refunds are the
// post-delivery variants.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusConfirmed, models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusConfirmed, models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusPaid:       {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusReturned},
	models.OrderStatusReturned:   {models.OrderStatusRefunded},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// AddListener registers a status-change observer. Listeners run after the
// transaction commits, off the request path.
func (s *OrderService) AddListener(l OrderStatusListener) {
	s.listeners = append(s.listeners, l)
}

func (s *OrderService) emit(order *models.Order, previous models.OrderStatus) {
	for _, l := range s.listeners {
		go l.OrderStatusChanged(OrderEvent{Order: order, Previous: previous})
	}
}

// PlaceOrder runs the whole checkout inside one transaction: stock is taken
// with a conditional decrement so a concurrent checkout of the last unit
// cannot oversell, prices are frozen into the order items, and the user's
// cart is cleared. Any failure rolls everything back.
func (s *OrderService) PlaceOrder(userID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}
	if len(req.Items) == 0 {
		return nil, apperrors.BadRequest(i18n.CodeOrderEmpty)
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		orderItems := make([]models.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound(i18n.CodeProductNotFound)
				}
				return fmt.Errorf("database error: %w", err)
			}

			if !product.IsActive {
				return apperrors.BadRequest(i18n.CodeProductInactive)
			}

			// Conditional decrement: the quantity guard makes
			// check-and-take atomic, zero affected rows means someone
			// else got the stock first.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, line.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperrors.BadRequest(i18n.CodeInsufficientStock, product.Name)
			}

			lineSubtotal := product.Price * float64(line.Quantity)
			subtotal += lineSubtotal

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				NameFa:    product.NameFa,
				SKU:       product.SKU,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Subtotal:  lineSubtotal,
			})
		}

		order = &models.Order{
			OrderNumber:        orderNumber,
			UserID:             userID,
			Status:             models.OrderStatusPending,
			Subtotal:           subtotal,
			Tax:                req.Tax,
			Shipping:           req.Shipping,
			Total:              subtotal + req.Tax + req.Shipping,
			ShippingName:       req.ShippingName,
			ShippingPhone:      utils.NormalizePhone(req.ShippingPhone),
			ShippingAddress:    req.ShippingAddress,
			ShippingCity:       req.ShippingCity,
			ShippingPostalCode: req.ShippingPostalCode,
			Items:              orderItems,
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// Checkout clears the cart
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("failed to clear cart: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Items").First(order, "id = ?", order.ID)
	s.emit(order, "")

	return order, nil
}

func (s *OrderService) GetOrder(orderID uuid.UUID, userID uuid.UUID, isAdmin bool) (*models.Order, error) {
	var order models.Order
	query := s.db.Preload("Items").Preload("Items.Product")
	if isAdmin {
		query = query.Preload("User")
	}

	if err := query.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeOrderNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, apperrors.NotFound(i18n.CodeOrderNotFound)
	}

	return &order, nil
}

func (s *OrderService) ListOrders(params OrderListParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items")

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+strings.ToUpper(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "updated_at", "total", "status"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus is the admin transition endpoint. Illegal moves are rejected
// against the state machine; a move to cancelled restores stock just like a
// customer cancellation.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var order models.Order
	var previous models.OrderStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeOrderNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		previous = order.Status
		if !CanTransition(previous, req.Status) {
			return apperrors.BadRequest(i18n.CodeInvalidStatusTransition, previous, req.Status)
		}

		now := time.Now()
		order.Status = req.Status

		switch req.Status {
		case models.OrderStatusPaid:
			order.PaidAt = &now
		case models.OrderStatusShipped:
			order.TrackingNumber = req.TrackingNumber
		case models.OrderStatusDelivered:
			order.DeliveredAt = &now
		case models.OrderStatusCancelled:
			order.CancelledAt = &now
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}

		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(&order, previous)
	return &order, nil
}

// CancelOrder is the customer-side cancellation: allowed while the order has
// not shipped, and puts every line's quantity back into stock.
func (s *OrderService) CancelOrder(orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	var previous models.OrderStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeOrderNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		previous = order.Status
		if previous == models.OrderStatusShipped || previous == models.OrderStatusDelivered || previous.IsTerminal() {
			return apperrors.BadRequest(i18n.CodeOrderNotCancellable)
		}

		now := time.Now()
		order.Status = models.OrderStatusCancelled
		order.CancelledAt = &now

		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}

		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(&order, previous)
	return &order, nil
}

// MarkPaid transitions an order to paid on behalf of the payment flow and
// records the gateway reference.
func (s *OrderService) MarkPaid(orderID uuid.UUID, paymentRef string) (*models.Order, error) {
	var order models.Order
	var previous models.OrderStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeOrderNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		previous = order.Status
		if previous == models.OrderStatusPaid {
			// Idempotent confirmation
			return nil
		}
		if !CanTransition(previous, models.OrderStatusPaid) {
			return apperrors.BadRequest(i18n.CodeInvalidStatusTransition, previous, models.OrderStatusPaid)
		}

		now := time.Now()
		order.Status = models.OrderStatusPaid
		order.PaidAt = &now
		order.PaymentRef = paymentRef

		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != models.OrderStatusPaid {
		s.emit(&order, previous)
	}
	return &order, nil
}

func (s *OrderService) GetStatsOverview() (*OrderStats, error) {
	stats := &OrderStats{
		CountByStatus: make(map[models.OrderStatus]int64),
	}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	// Midnight in the server's zone, not UTC, so the count rolls over with
	// the local calendar day.
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group orders by status: %w", err)
	}
	for _, row := range rows {
		stats.CountByStatus[row.Status] = row.Count
	}

	// Revenue counts orders that have been paid for
	if err := s.db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusDelivered}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return stats, nil
}

func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}
	return nil
}

func generateOrderNumber() (string, error) {
	suffix, err := utils.GenerateRandomString(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SY-%s-%s", time.Now().Format("20060102"), strings.ToUpper(suffix)), nil
}
