// internal/models/review.go
package models

import "github.com/google/uuid"

// Review is unique per (user, product) and requires a qualifying prior order.
type Review struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`

	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
