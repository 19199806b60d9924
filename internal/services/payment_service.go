// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/config"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	orders *OrderService
}

type CreatePaymentIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type ConfirmPaymentRequest struct {
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

func NewPaymentService(db *gorm.DB, cfg *config.Config, orders *OrderService) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: cfg,
		orders: orders,
	}
}

// payableStatuses are the order states in which a payment may be started.
var payableStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusConfirmed:  true,
}

// CreateIntent opens a Stripe PaymentIntent for an unpaid order and stores
// the intent id as the order's payment reference. Amounts are in whole
// rials, which have no minor unit.
func (s *PaymentService) CreateIntent(userID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var order models.Order
	if err := s.db.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeOrderNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !payableStatuses[order.Status] {
		return nil, apperrors.BadRequest(i18n.CodePaymentNotAllowed)
	}

	amount := int64(order.Total)
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.Internal(i18n.CodePaymentFailed, err)
	}

	if err := s.db.Model(&order).UpdateColumn("payment_ref", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
		Amount:       amount,
		Currency:     s.config.Payment.Currency,
	}, nil
}

// Confirm verifies the intent with Stripe and, on success, marks the order
// paid through the order service so the status machine and listeners fire.
func (s *PaymentService) Confirm(userID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var order models.Order
	if err := s.db.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeOrderNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentRef != "" && order.PaymentRef != req.PaymentIntentID {
		return nil, apperrors.BadRequest(i18n.CodePaymentRefMismatch)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, apperrors.Internal(i18n.CodePaymentFailed, err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperrors.BadRequest(i18n.CodePaymentNotCompleted)
	}

	return s.orders.MarkPaid(order.ID, pi.ID)
}
