// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name               string         `json:"name" gorm:"size:255;not null"`
	NameFa             string         `json:"name_fa" gorm:"size:255"`
	Description        string         `json:"description" gorm:"type:text"`
	DescriptionFa      string         `json:"description_fa" gorm:"type:text"`
	SKU                string         `json:"sku" gorm:"uniqueIndex;size:64;not null"`
	Price              float64        `json:"price" gorm:"type:decimal(12,0);not null"`
	OriginalPrice      float64        `json:"original_price" gorm:"type:decimal(12,0);default:0"`
	DiscountPercentage float64        `json:"discount_percentage" gorm:"type:decimal(5,2);default:0"`
	Quantity           int            `json:"quantity" gorm:"default:0"`
	CategoryID         *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	IsFeatured         bool           `json:"is_featured" gorm:"default:false;index"`
	IsActive           bool           `json:"is_active" gorm:"default:true;index"`
	Rating             float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount        int64          `json:"review_count" gorm:"default:0"`
	Images             pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags               pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

// InStock reports whether the requested quantity is currently available.
func (p *Product) InStock(quantity int) bool {
	return p.Quantity >= quantity
}
