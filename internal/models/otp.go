// internal/models/otp.go
package models

import "time"

// OTPCode stores a sha256 digest of the six digit login code. Codes expire
// after two minutes and are single-use.
type OTPCode struct {
	BaseModel
	Phone     string     `json:"phone" gorm:"size:20;index;not null"`
	CodeHash  string     `json:"-" gorm:"size:64;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func (c *OTPCode) Usable(now time.Time) bool {
	return c.UsedAt == nil && now.Before(c.ExpiresAt)
}
