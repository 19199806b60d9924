// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/config"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

const (
	otpTTL        = 2 * time.Minute
	resetTokenTTL = time.Hour
)

type AuthService struct {
	db           *gorm.DB
	cfg          *config.Config
	sms          SMSSender
	notification *NotificationService
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strong_password"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone_ir"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RequestOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_ir"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_ir"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, sms SMSSender, notification *NotificationService) *AuthService {
	return &AuthService{
		db:           db,
		cfg:          cfg,
		sms:          sms,
		notification: notification,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	// Check conflicts on both identities
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict(i18n.CodeEmailTaken)
	}

	user := &models.User{
		Email:     &req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.UserRoleCustomer,
		Status:    models.UserStatusActive,
	}

	if req.Phone != "" {
		phone := utils.NormalizePhone(req.Phone)
		if err := s.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
			return nil, apperrors.Conflict(i18n.CodePhoneTaken)
		}
		user.Phone = &phone
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized(i18n.CodeInvalidCredentials)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.Forbidden(i18n.CodeAccountSuspended)
	}

	if !user.HasPassword() {
		return nil, apperrors.BadRequest(i18n.CodeNoPasswordOnAccount)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Unauthorized(i18n.CodeInvalidCredentials)
	}

	s.touchLastLogin(&user)
	return s.issueToken(&user)
}

// RequestOTP always reports success so that phone enumeration is not
// possible; invalid numbers are rejected by validation before this point.
func (s *AuthService) RequestOTP(req *RequestOTPRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	phone := utils.NormalizePhone(req.Phone)

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &models.OTPCode{
		Phone:     phone,
		CodeHash:  utils.HashString(code),
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	// Delivery happens off the request path
	go func() {
		if err := s.sms.SendOTP(phone, code); err != nil {
			logrus.WithError(err).WithField("phone", phone).Error("Failed to send OTP SMS")
		}
	}()

	return nil
}

func (s *AuthService) VerifyOTP(req *VerifyOTPRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	phone := utils.NormalizePhone(req.Phone)

	var otp models.OTPCode
	err := s.db.Where("phone = ? AND used_at IS NULL", phone).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, apperrors.Unauthorized(i18n.CodeOTPInvalid)
	}

	now := time.Now()
	if !otp.Usable(now) || otp.CodeHash != utils.HashString(req.Code) {
		return nil, apperrors.Unauthorized(i18n.CodeOTPInvalid)
	}

	// Single use. The conditional update makes the consume atomic, so two
	// racing verifications cannot both claim the same code.
	consume := s.db.Model(&models.OTPCode{}).
		Where("id = ? AND used_at IS NULL", otp.ID).
		Update("used_at", now)
	if consume.Error != nil {
		return nil, fmt.Errorf("failed to consume otp: %w", consume.Error)
	}
	if consume.RowsAffected == 0 {
		return nil, apperrors.Unauthorized(i18n.CodeOTPInvalid)
	}

	// Find or create the OTP-only account
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}
		user = models.User{
			Phone:  &phone,
			Role:   models.UserRoleCustomer,
			Status: models.UserStatusActive,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.Forbidden(i18n.CodeAccountSuspended)
	}

	s.touchLastLogin(&user)
	return s.issueToken(&user)
}

// ForgotPassword never discloses whether the email exists.
func (s *AuthService) ForgotPassword(req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	updates := map[string]interface{}{
		"reset_token":            token,
		"reset_token_expires_at": expiresAt,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	go func() {
		if err := s.notification.SendPasswordResetEmail(&user, token); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to send reset email")
		}
	}()

	return nil
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var user models.User
	err := s.db.Where("reset_token = ? AND reset_token_expires_at > ?", req.Token, time.Now()).
		First(&user).Error
	if err != nil {
		return apperrors.BadRequest(i18n.CodeResetTokenInvalid)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updates := map[string]interface{}{
		"password_hash":          user.PasswordHash,
		"reset_token":            nil,
		"reset_token_expires_at": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *AuthService) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, apperrors.NotFound(i18n.CodeUserNotFound)
	}
	return &user, nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, string(user.Role), user.Contact(), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) touchLastLogin(user *models.User) {
	now := time.Now()
	user.LastLoginAt = &now
	s.db.Model(user).Update("last_login_at", now)
}
