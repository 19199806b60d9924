// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Order amounts and per-item prices are frozen at placement time and form an
// immutable historical record. Only status transitions mutate an order.
type Order struct {
	BaseModel
	OrderNumber string      `json:"order_number" gorm:"uniqueIndex;size:32;not null"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;index;not null"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Subtotal float64 `json:"subtotal" gorm:"type:decimal(14,0);not null"`
	Tax      float64 `json:"tax" gorm:"type:decimal(14,0);default:0"`
	Shipping float64 `json:"shipping" gorm:"type:decimal(14,0);default:0"`
	Total    float64 `json:"total" gorm:"type:decimal(14,0);not null"`

	ShippingName       string `json:"shipping_name" gorm:"size:200"`
	ShippingPhone      string `json:"shipping_phone" gorm:"size:20"`
	ShippingAddress    string `json:"shipping_address" gorm:"type:text"`
	ShippingCity       string `json:"shipping_city" gorm:"size:100"`
	ShippingPostalCode string `json:"shipping_postal_code" gorm:"size:20"`

	TrackingNumber string     `json:"tracking_number,omitempty" gorm:"size:64"`
	PaymentRef     string     `json:"payment_ref,omitempty" gorm:"size:128"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	User  User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"size:255"`
	NameFa    string    `json:"name_fa" gorm:"size:255"`
	SKU       string    `json:"sku" gorm:"size:64"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(12,0);not null"`
	Subtotal  float64   `json:"subtotal" gorm:"type:decimal(14,0);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// IsTerminal reports whether no further customer-visible transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCancelled, OrderStatusReturned, OrderStatusRefunded:
		return true
	}
	return false
}
