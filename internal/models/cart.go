// internal/models/cart.go
package models

import "github.com/google/uuid"

// Cart is the single active cart per user, created lazily on first access.
type Cart struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem snapshots the product price at add time. Summary totals are
// recomputed from the live product price, not this snapshot.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;index;not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Price     float64   `json:"price" gorm:"type:decimal(12,0);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
