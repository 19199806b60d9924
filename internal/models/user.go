// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        *string    `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	Phone        *string    `json:"phone,omitempty" gorm:"uniqueIndex;size:20"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'customer'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Password reset token lives on the user record, one hour validity.
	ResetToken          *string    `json:"-" gorm:"size:128;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	// Relationships
	Orders        []Order        `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	Reviews       []Review       `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
	Wishlist      []WishlistItem `json:"wishlist,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasPassword reports whether this account can log in with a password at all.
// OTP-only accounts carry no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Contact returns the identifying contact for token claims: email when
// present, otherwise phone.
func (u *User) Contact() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Phone != nil {
		return *u.Phone
	}
	return ""
}
