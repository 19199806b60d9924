// internal/services/auth_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	auth *AuthService
	sms  *fakeSMSSender
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.sms = newFakeSMSSender()
	cfg := testConfig()
	notifications := NewNotificationService(suite.db, cfg, suite.sms)
	suite.auth = NewAuthService(suite.db, cfg, suite.sms, notifications)
}

func (suite *AuthServiceTestSuite) TestRegisterAndLogin() {
	resp, err := suite.auth.Register(&RegisterRequest{
		Email:    "new@example.com",
		Password: "secret1234",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal("Bearer", resp.TokenType)
	suite.Equal(models.UserRoleCustomer, resp.User.Role)

	login, err := suite.auth.Login(&LoginRequest{
		Email:    "new@example.com",
		Password: "secret1234",
	})
	suite.Require().NoError(err)

	claims, err := utils.ValidateJWT(login.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(resp.User.ID.String(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmailConflicts() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "dup@example.com", Password: "secret1234"})
	suite.Require().NoError(err)

	_, err = suite.auth.Register(&RegisterRequest{Email: "dup@example.com", Password: "secret9876"})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeEmailTaken, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsWeakPassword() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "weak@example.com", Password: "short"})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeValidationError, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPasswordUnauthorized() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "user@example.com", Password: "secret1234"})
	suite.Require().NoError(err)

	_, err = suite.auth.Login(&LoginRequest{Email: "user@example.com", Password: "wrong1234"})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeInvalidCredentials, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestLoginSuspendedAccountForbidden() {
	resp, err := suite.auth.Register(&RegisterRequest{Email: "banned@example.com", Password: "secret1234"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Model(resp.User).Update("status", models.UserStatusSuspended).Error)

	_, err = suite.auth.Login(&LoginRequest{Email: "banned@example.com", Password: "secret1234"})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeAccountSuspended, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestOTPFlowCreatesAccountAndIsSingleUse() {
	phone := "09121112233"

	suite.Require().NoError(suite.auth.RequestOTP(&RequestOTPRequest{Phone: phone}))

	// SMS delivery is async
	suite.Require().Eventually(func() bool {
		return suite.sms.lastOTP(phone) != ""
	}, time.Second, 10*time.Millisecond)
	code := suite.sms.lastOTP(phone)
	suite.Len(code, 6)

	resp, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: code})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.Require().NotNil(resp.User.Phone)
	suite.Equal(phone, *resp.User.Phone)
	suite.False(resp.User.HasPassword())

	// The same code cannot be replayed
	_, err = suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: code})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeOTPInvalid, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestOTPConcurrentVerifySingleWinner() {
	phone := "09121119999"

	suite.Require().NoError(suite.auth.RequestOTP(&RequestOTPRequest{Phone: phone}))
	suite.Require().Eventually(func() bool {
		return suite.sms.lastOTP(phone) != ""
	}, time.Second, 10*time.Millisecond)
	code := suite.sms.lastOTP(phone)

	const attempts = 5
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: code})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	suite.Equal(1, succeeded)
}

func (suite *AuthServiceTestSuite) TestOTPNormalizesInternationalPhone() {
	suite.Require().NoError(suite.auth.RequestOTP(&RequestOTPRequest{Phone: "+989121112233"}))

	suite.Require().Eventually(func() bool {
		return suite.sms.lastOTP("09121112233") != ""
	}, time.Second, 10*time.Millisecond)
	code := suite.sms.lastOTP("09121112233")

	resp, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: "09121112233", Code: code})
	suite.Require().NoError(err)
	suite.Equal("09121112233", *resp.User.Phone)
}

func (suite *AuthServiceTestSuite) TestExpiredOTPRejected() {
	phone := "09123334455"
	code := "123456"

	otp := &models.OTPCode{
		Phone:     phone,
		CodeHash:  utils.HashString(code),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	suite.Require().NoError(suite.db.Create(otp).Error)

	_, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: code})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeOTPInvalid, appErr.Code)
}

func (suite *AuthServiceTestSuite) TestWrongOTPCodeRejected() {
	phone := "09125556677"

	otp := &models.OTPCode{
		Phone:     phone,
		CodeHash:  utils.HashString("111111"),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	suite.Require().NoError(suite.db.Create(otp).Error)

	_, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: "222222"})
	suite.Require().Error(err)
}

func (suite *AuthServiceTestSuite) TestPasswordLoginUnavailableForOTPOnlyAccount() {
	phone := "09127778899"
	otp := &models.OTPCode{
		Phone:     phone,
		CodeHash:  utils.HashString("654321"),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	suite.Require().NoError(suite.db.Create(otp).Error)

	resp, err := suite.auth.VerifyOTP(&VerifyOTPRequest{Phone: phone, Code: "654321"})
	suite.Require().NoError(err)
	suite.False(resp.User.HasPassword())
}

func (suite *AuthServiceTestSuite) TestForgotPasswordNeverDisclosesAccounts() {
	// Unknown email still reports success
	suite.Require().NoError(suite.auth.ForgotPassword(&ForgotPasswordRequest{Email: "ghost@example.com"}))

	_, err := suite.auth.Register(&RegisterRequest{Email: "known@example.com", Password: "secret1234"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.auth.ForgotPassword(&ForgotPasswordRequest{Email: "known@example.com"}))

	var user models.User
	suite.Require().NoError(suite.db.Where("email = ?", "known@example.com").First(&user).Error)
	suite.NotNil(user.ResetToken)
}

func (suite *AuthServiceTestSuite) TestResetPasswordConsumesToken() {
	_, err := suite.auth.Register(&RegisterRequest{Email: "reset@example.com", Password: "oldpass1234"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.auth.ForgotPassword(&ForgotPasswordRequest{Email: "reset@example.com"}))

	var user models.User
	suite.Require().NoError(suite.db.Where("email = ?", "reset@example.com").First(&user).Error)
	suite.Require().NotNil(user.ResetToken)
	token := *user.ResetToken

	suite.Require().NoError(suite.auth.ResetPassword(&ResetPasswordRequest{
		Token:       token,
		NewPassword: "newpass1234",
	}))

	_, err = suite.auth.Login(&LoginRequest{Email: "reset@example.com", Password: "newpass1234"})
	suite.Require().NoError(err)

	// Token is cleared after use
	err = suite.auth.ResetPassword(&ResetPasswordRequest{Token: token, NewPassword: "another1234"})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeResetTokenInvalid, appErr.Code)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
