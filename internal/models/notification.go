// internal/models/notification.go
package models

import "github.com/google/uuid"

type Notification struct {
	BaseModel
	UserID    uuid.UUID            `json:"user_id" gorm:"type:uuid;index;not null"`
	Type      NotificationType     `json:"type" gorm:"type:varchar(20);default:'system'"`
	Priority  NotificationPriority `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	Title     string               `json:"title" gorm:"size:255;not null"`
	TitleFa   string               `json:"title_fa" gorm:"size:255"`
	Message   string               `json:"message" gorm:"type:text"`
	MessageFa string               `json:"message_fa" gorm:"type:text"`
	IsRead    bool                 `json:"is_read" gorm:"default:false;index"`
	OrderID   *uuid.UUID           `json:"order_id,omitempty" gorm:"type:uuid;index"`
}
