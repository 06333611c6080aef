package storefront

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
)

var (
	// ErrNotAuthenticated операция требует входа.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSelfGift номер получателя совпадает с номером дарителя.
	ErrSelfGift = errors.New("cannot gift to yourself")
	// ErrCartItemNotFound позиции нет в корзине.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrWorkshopNotFound мастер-класса нет в каталоге.
	ErrWorkshopNotFound = errors.New("workshop not found")
	// ErrNoAccess у пользователя нет действующей подписки на мастер-класс.
	ErrNoAccess = errors.New("no active subscription for workshop")
	// ErrContentUnavailable не загрузился ни один раздел контента.
	ErrContentUnavailable = errors.New("content unavailable")
)

// Причины отказа входа и регистрации.
const (
	ReasonConcurrentSession = "concurrent_session"
	ReasonEmail             = "email"
	ReasonPhone             = "phone"
	ReasonGeneric           = "generic"
)

// Сообщения для пользователя.
const (
	msgGeneric           = "حدث خطأ، يرجى المحاولة مرة أخرى"
	msgConcurrentSession = "هذا الحساب مسجل الدخول على جهاز آخر"
	msgEmail             = "البريد الإلكتروني غير صحيح أو مستخدم"
	msgPhone             = "رقم الهاتف غير صحيح أو مستخدم"
	msgSelfGift          = "لا يمكنك إهداء الورشة لنفسك"
	msgNotAuthenticated  = "يرجى تسجيل الدخول أولاً"
	msgUnsettledGift     = "تم الدفع، وسيتم تفعيل الهدية بعد المراجعة. تواصل مع الدعم إذا تأخرت"
)

// AuthError отказ входа или регистрации с причиной для формы.
type AuthError struct {
	Reason  string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (%s): %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UnsettledGiftError оплата подарка прошла, но подарок не открыт получателю.
// Запись остаётся в awaiting_payment с id подписки для ручной сверки.
type UnsettledGiftError struct {
	GiftID         string
	SubscriptionID int
	Err            error
}

func (e *UnsettledGiftError) Error() string {
	return fmt.Sprintf("gift %s paid by subscription %d but not settled: %v", e.GiftID, e.SubscriptionID, e.Err)
}

func (e *UnsettledGiftError) Unwrap() error {
	return e.Err
}

// ValidationError ошибка проверки поля до обращения к сети.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var concurrentSessionKeys = map[string]bool{
	"concurrent_session": true,
	"active_session":     true,
	"already_logged_in":  true,
}

func classifyAuth(err error) *AuthError {
	var apiErr *drhope.APIError
	if !errors.As(err, &apiErr) {
		return &AuthError{Reason: ReasonGeneric, Message: msgGeneric, Err: err}
	}
	switch {
	case concurrentSessionKeys[apiErr.Key]:
		return &AuthError{Reason: ReasonConcurrentSession, Message: orDefault(apiErr.Message, msgConcurrentSession), Err: err}
	case apiErr.HasField("email"):
		return &AuthError{Reason: ReasonEmail, Message: orDefault(apiErr.Message, msgEmail), Err: err}
	case apiErr.HasField("phone"):
		return &AuthError{Reason: ReasonPhone, Message: orDefault(apiErr.Message, msgPhone), Err: err}
	default:
		return &AuthError{Reason: ReasonGeneric, Message: orDefault(apiErr.Message, msgGeneric), Err: err}
	}
}

// UserMessage переводит ошибку операции витрины в текст для пользователя.
// Бизнес-ошибки API показываются сообщением сервера, сетевые — общим текстом.
func UserMessage(err error) string {
	var (
		authErr   *AuthError
		valErr    *ValidationError
		unsettled *UnsettledGiftError
		apiErr    *drhope.APIError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &unsettled):
		return msgUnsettledGift
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.Is(err, ErrSelfGift):
		return msgSelfGift
	case errors.Is(err, ErrNotAuthenticated):
		return msgNotAuthenticated
	case errors.As(err, &apiErr):
		return orDefault(apiErr.Message, msgGeneric)
	default:
		return msgGeneric
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
