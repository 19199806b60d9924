// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/config"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
	sms    SMSSender
}

func NewNotificationService(db *gorm.DB, cfg *config.Config, sms SMSSender) *NotificationService {
	return &NotificationService{
		db:     db,
		config: cfg,
		sms:    sms,
	}
}

type NotificationListParams struct {
	utils.PaginationParams
	UnreadOnly bool
}

func (s *NotificationService) List(userID uuid.UUID, params NotificationListParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if params.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "priority"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		return nil, apperrors.NotFound(i18n.CodeNotificationNotFound)
	}

	if !notification.IsRead {
		if err := s.db.Model(&notification).Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		notification.IsRead = true
	}

	return &notification, nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// OrderStatusChanged implements OrderStatusListener: it translates order
// transitions into in-app notifications and, for shipments, an SMS to the
// shipping phone.
func (s *NotificationService) OrderStatusChanged(evt OrderEvent) {
	order := evt.Order

	var notification *models.Notification
	switch {
	case evt.Previous == "":
		notification = s.orderNotification(order, models.NotificationPriorityMedium,
			"Order registered", "سفارش ثبت شد",
			fmt.Sprintf("Your order %s has been registered and is awaiting processing.", order.OrderNumber),
			fmt.Sprintf("سفارش %s ثبت شد و در انتظار پردازش است.", order.OrderNumber))

	case order.Status == models.OrderStatusPaid:
		notification = s.orderNotification(order, models.NotificationPriorityMedium,
			"Payment received", "پرداخت موفق",
			fmt.Sprintf("Payment for order %s has been received.", order.OrderNumber),
			fmt.Sprintf("پرداخت سفارش %s با موفقیت انجام شد.", order.OrderNumber))

	case order.Status == models.OrderStatusShipped:
		notification = s.orderNotification(order, models.NotificationPriorityHigh,
			"Order shipped", "سفارش ارسال شد",
			fmt.Sprintf("Order %s has been shipped. Tracking number: %s", order.OrderNumber, order.TrackingNumber),
			fmt.Sprintf("سفارش %s ارسال شد. کد رهگیری: %s", order.OrderNumber, order.TrackingNumber))

		if s.sms != nil && order.ShippingPhone != "" {
			if err := s.sms.SendShippingUpdate(order.ShippingPhone, order.OrderNumber, order.TrackingNumber); err != nil {
				logrus.WithError(err).WithField("order", order.OrderNumber).Error("Failed to send shipping SMS")
			}
		}

	case order.Status == models.OrderStatusDelivered:
		notification = s.orderNotification(order, models.NotificationPriorityMedium,
			"Order delivered", "سفارش تحویل شد",
			fmt.Sprintf("Order %s has been delivered. Thank you for your purchase.", order.OrderNumber),
			fmt.Sprintf("سفارش %s تحویل داده شد. از خرید شما متشکریم.", order.OrderNumber))

	case order.Status == models.OrderStatusCancelled:
		notification = s.orderNotification(order, models.NotificationPriorityMedium,
			"Order cancelled", "سفارش لغو شد",
			fmt.Sprintf("Order %s has been cancelled.", order.OrderNumber),
			fmt.Sprintf("سفارش %s لغو شد.", order.OrderNumber))
	}

	if notification == nil {
		return
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("order", order.OrderNumber).Error("Failed to create order notification")
	}
}

func (s *NotificationService) orderNotification(order *models.Order, priority models.NotificationPriority, title, titleFa, message, messageFa string) *models.Notification {
	orderID := order.ID
	return &models.Notification{
		UserID:    order.UserID,
		Type:      models.NotificationTypeOrder,
		Priority:  priority,
		Title:     title,
		TitleFa:   titleFa,
		Message:   message,
		MessageFa: messageFa,
		OrderID:   &orderID,
	}
}

// SendPasswordResetEmail delivers the reset link over SMTP.
func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	if user.Email == nil {
		return fmt.Errorf("user has no email address")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken)
	body := fmt.Sprintf(
		"Subject: %s password reset\r\nTo: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
			"برای بازیابی رمز عبور روی لینک زیر کلیک کنید (اعتبار: یک ساعت):\r\n%s\r\n\r\n"+
			"To reset your password open the link below (valid for one hour):\r\n%s\r\n",
		s.config.Email.FromName, *user.Email, resetURL, resetURL)

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{*user.Email}, []byte(body))
}
