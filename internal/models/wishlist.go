// internal/models/wishlist.go
package models

import "github.com/google/uuid"

type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product;index"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
