// internal/i18n/keys.go
package i18n

// Stable machine codes carried in every error envelope and a handful of
// success messages. The catalog in i18n.go maps each code to its English and
// Persian text.
const (
	// Generic
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeRateLimited     = "RATE_LIMITED"

	// Auth
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountSuspended    = "ACCOUNT_SUSPENDED"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodePhoneTaken          = "PHONE_TAKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeOTPInvalid          = "OTP_INVALID"
	CodeOTPSent             = "OTP_SENT"
	CodeResetTokenInvalid   = "RESET_TOKEN_INVALID"
	CodePasswordResetSent   = "PASSWORD_RESET_SENT"
	CodePasswordResetDone   = "PASSWORD_RESET_DONE"
	CodeNoPasswordOnAccount = "NO_PASSWORD_ON_ACCOUNT"
	CodeUserNotFound        = "USER_NOT_FOUND"

	// Catalog
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeProductInactive   = "PRODUCT_INACTIVE"
	CodeSKUTaken          = "SKU_TAKEN"
	CodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	CodeCategoryNameTaken = "CATEGORY_NAME_TAKEN"
	CodeCategoryInUse     = "CATEGORY_IN_USE"

	// Cart / orders
	CodeCartItemNotFound        = "CART_ITEM_NOT_FOUND"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeOrderEmpty              = "ORDER_EMPTY"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeOrderNotCancellable     = "ORDER_NOT_CANCELLABLE"

	// Reviews / wishlist / notifications
	CodeReviewExists         = "REVIEW_EXISTS"
	CodeReviewNotEligible    = "REVIEW_NOT_ELIGIBLE"
	CodeReviewNotFound       = "REVIEW_NOT_FOUND"
	CodeWishlistExists       = "WISHLIST_EXISTS"
	CodeWishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"
	CodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// Payments
	CodePaymentNotAllowed    = "PAYMENT_NOT_ALLOWED"
	CodePaymentNotCompleted  = "PAYMENT_NOT_COMPLETED"
	CodePaymentFailed        = "PAYMENT_FAILED"
	CodePaymentRefMismatch   = "PAYMENT_REF_MISMATCH"
	CodeStorageNotConfigured = "STORAGE_NOT_CONFIGURED"

	// Uploads
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeFileTypeNotAllowed = "FILE_TYPE_NOT_ALLOWED"
)
