// internal/i18n/i18n.go
package i18n

import "fmt"

const (
	LangEN = "en"
	LangFA = "fa"
)

// Message is one entry of the fixed code catalog.
type Message struct {
	EN string
	FA string
}

var catalog = map[string]Message{
	CodeBadRequest:      {EN: "Invalid request", FA: "درخواست نامعتبر است"},
	CodeValidationError: {EN: "Input validation failed", FA: "اعتبارسنجی ورودی ناموفق بود"},
	CodeUnauthorized:    {EN: "Authentication required", FA: "ورود به حساب کاربری الزامی است"},
	CodeForbidden:       {EN: "Access denied", FA: "دسترسی غیرمجاز"},
	CodeNotFound:        {EN: "Resource not found", FA: "موردی یافت نشد"},
	CodeConflict:        {EN: "Resource already exists", FA: "این مورد از قبل وجود دارد"},
	CodeInternalError:   {EN: "Internal server error", FA: "خطای داخلی سرور"},
	CodeRateLimited:     {EN: "Too many requests, try again later", FA: "تعداد درخواست‌ها بیش از حد مجاز است، بعدا تلاش کنید"},

	CodeInvalidCredentials:  {EN: "Invalid email or password", FA: "ایمیل یا رمز عبور اشتباه است"},
	CodeAccountSuspended:    {EN: "Account is suspended", FA: "حساب کاربری مسدود شده است"},
	CodeEmailTaken:          {EN: "An account with this email already exists", FA: "حسابی با این ایمیل از قبل وجود دارد"},
	CodePhoneTaken:          {EN: "An account with this phone number already exists", FA: "حسابی با این شماره موبایل از قبل وجود دارد"},
	CodeInvalidToken:        {EN: "Invalid authentication token", FA: "توکن احراز هویت نامعتبر است"},
	CodeTokenExpired:        {EN: "Authentication token has expired", FA: "توکن احراز هویت منقضی شده است"},
	CodeOTPInvalid:          {EN: "Verification code is invalid or expired", FA: "کد تایید نامعتبر یا منقضی شده است"},
	CodeOTPSent:             {EN: "If the phone number is valid, a verification code has been sent", FA: "در صورت معتبر بودن شماره، کد تایید ارسال شد"},
	CodeResetTokenInvalid:   {EN: "Password reset link is invalid or expired", FA: "لینک بازیابی رمز عبور نامعتبر یا منقضی شده است"},
	CodePasswordResetSent:   {EN: "If an account exists for this email, a reset link has been sent", FA: "در صورت وجود حساب، لینک بازیابی به ایمیل ارسال شد"},
	CodePasswordResetDone:   {EN: "Password has been reset successfully", FA: "رمز عبور با موفقیت تغییر کرد"},
	CodeNoPasswordOnAccount: {EN: "This account uses SMS login only", FA: "این حساب فقط با کد پیامکی قابل ورود است"},
	CodeUserNotFound:        {EN: "User not found", FA: "کاربر یافت نشد"},

	CodeProductNotFound:   {EN: "Product not found", FA: "محصول یافت نشد"},
	CodeProductInactive:   {EN: "Product is not available", FA: "محصول در دسترس نیست"},
	CodeSKUTaken:          {EN: "A product with this SKU already exists", FA: "محصولی با این کد انبار از قبل وجود دارد"},
	CodeCategoryNotFound:  {EN: "Category not found", FA: "دسته‌بندی یافت نشد"},
	CodeCategoryNameTaken: {EN: "A category with this name already exists", FA: "دسته‌بندی با این نام از قبل وجود دارد"},
	CodeCategoryInUse:     {EN: "Category has products or subcategories and cannot be deleted", FA: "این دسته‌بندی دارای محصول یا زیر‌دسته است و قابل حذف نیست"},

	CodeCartItemNotFound:        {EN: "Cart item not found", FA: "قلم سبد خرید یافت نشد"},
	CodeInsufficientStock:       {EN: "Insufficient stock for product %s", FA: "موجودی محصول %s کافی نیست"},
	CodeOrderNotFound:           {EN: "Order not found", FA: "سفارش یافت نشد"},
	CodeOrderEmpty:              {EN: "Order must contain at least one item", FA: "سفارش باید حداقل یک قلم داشته باشد"},
	CodeInvalidStatusTransition: {EN: "Cannot change order status from %s to %s", FA: "تغییر وضعیت سفارش از %s به %s مجاز نیست"},
	CodeOrderNotCancellable:     {EN: "Order can no longer be cancelled", FA: "امکان لغو این سفارش وجود ندارد"},

	CodeReviewExists:         {EN: "You have already reviewed this product", FA: "شما قبلا برای این محصول دیدگاه ثبت کرده‌اید"},
	CodeReviewNotEligible:    {EN: "Only buyers of this product can review it", FA: "فقط خریداران این محصول می‌توانند دیدگاه ثبت کنند"},
	CodeReviewNotFound:       {EN: "Review not found", FA: "دیدگاه یافت نشد"},
	CodeWishlistExists:       {EN: "Product is already in your wishlist", FA: "این محصول از قبل در لیست علاقه‌مندی‌ها است"},
	CodeWishlistItemNotFound: {EN: "Product is not in your wishlist", FA: "این محصول در لیست علاقه‌مندی‌ها نیست"},
	CodeNotificationNotFound: {EN: "Notification not found", FA: "اعلان یافت نشد"},

	CodePaymentNotAllowed:    {EN: "Order is not awaiting payment", FA: "این سفارش در انتظار پرداخت نیست"},
	CodePaymentNotCompleted:  {EN: "Payment has not completed yet", FA: "پرداخت هنوز تکمیل نشده است"},
	CodePaymentFailed:        {EN: "Payment failed", FA: "پرداخت ناموفق بود"},
	CodePaymentRefMismatch:   {EN: "Payment does not belong to this order", FA: "پرداخت متعلق به این سفارش نیست"},
	CodeStorageNotConfigured: {EN: "File storage is not configured", FA: "فضای ذخیره‌سازی فایل پیکربندی نشده است"},

	CodeFileTooLarge:       {EN: "File exceeds the maximum allowed size", FA: "حجم فایل بیش از حد مجاز است"},
	CodeFileTypeNotAllowed: {EN: "File type %s is not allowed", FA: "فرمت فایل %s مجاز نیست"},
}

// T returns the message for a code in the requested language, falling back to
// English when the language is unknown. Unknown codes come back verbatim.
func T(lang, code string, args ...interface{}) string {
	msg, ok := catalog[code]
	if !ok {
		return code
	}

	text := msg.EN
	if lang == LangFA {
		text = msg.FA
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Pair returns both translations for a code; error envelopes always carry
// both per the bilingual contract.
func Pair(code string, args ...interface{}) (en, fa string) {
	return T(LangEN, code, args...), T(LangFA, code, args...)
}

func SupportedLanguages() []string {
	return []string{LangEN, LangFA}
}
