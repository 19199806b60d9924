// internal/models/category.go
package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	Name      string     `json:"name" gorm:"uniqueIndex;size:120;not null"`
	NameFa    string     `json:"name_fa" gorm:"size:120"`
	Slug      string     `json:"slug" gorm:"uniqueIndex;size:140;not null"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	SortOrder int        `json:"sort_order" gorm:"default:0"`

	// Relationships
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product  `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
