// internal/services/order_events.go
package services

import "github.com/aryanmiramini/shopyar-backend/internal/models"

// OrderEvent describes one status transition. Previous is empty for a newly
// placed order.
type OrderEvent struct {
	Order    *models.Order
	Previous models.OrderStatus
}

// OrderStatusListener receives transitions after the surrounding transaction
// has committed. The state machine itself knows nothing about delivery
// channels; the notification dispatcher registers here.
type OrderStatusListener interface {
	OrderStatusChanged(evt OrderEvent)
}
