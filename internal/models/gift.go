package models

import (
	"time"
)

// Статусы подарка. Переходы только вперёд:
// awaiting_payment → pending | cancelled, pending → claiming → claimed.
// claiming возвращается в pending, только если подписка получателю точно
// не создана.
const (
	GiftAwaitingPayment = "awaiting_payment"
	GiftPending         = "pending"
	GiftClaiming        = "claiming"
	GiftClaimed         = "claimed"
	GiftCancelled       = "cancelled"
)

// PendingGift подаренное место, ожидающее получателя. Получатель
// определяется только нормализованным номером телефона.
type PendingGift struct {
	ID                    string     `json:"id"`
	Status                string     `json:"status"`
	WorkshopID            int        `json:"workshop_id"`
	PackageID             *int       `json:"package_id,omitempty"`
	GifterUserID          int        `json:"gifter_user_id"`
	GifterName            string     `json:"gifter_name"`
	GifterEmail           string     `json:"-"`
	RecipientName         string     `json:"recipient_name"`
	RecipientPhone        string     `json:"recipient_phone"`
	Message               string     `json:"message,omitempty"`
	SourceSubscriptionID  int        `json:"source_subscription_id,omitempty"`
	ClaimedByUserID       *int       `json:"claimed_by_user_id,omitempty"`
	ClaimedSubscriptionID *int       `json:"claimed_subscription_id,omitempty"`
	ClaimedAt             *time.Time `json:"claimed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

// IsClaimed сообщает, привязан ли подарок к пользователю.
func (g *PendingGift) IsClaimed() bool {
	return g.ClaimedByUserID != nil
}

// GiftRequest данные формы подарка.
type GiftRequest struct {
	WorkshopID       int    `json:"workshop_id" validate:"required,gt=0"`
	PackageID        *int   `json:"package_id,omitempty"`
	RecipientName    string `json:"recipient_name" validate:"required"`
	RecipientPhone   string `json:"recipient_phone" validate:"required"`
	RecipientCountry string `json:"recipient_country_code,omitempty"`
	Message          string `json:"message,omitempty"`
	PaymentType      string `json:"payment_type" validate:"required"`
}

// GiftResult созданный подарок и результат оплаты.
type GiftResult struct {
	Gift    PendingGift   `json:"gift"`
	Payment PaymentResult `json:"payment"`
}

// GiftEvent сообщение о подарке для воркера уведомлений.
type GiftEvent struct {
	GiftID         string `json:"gift_id"`
	WorkshopID     int    `json:"workshop_id"`
	GifterEmail    string `json:"gifter_email,omitempty"`
	GifterName     string `json:"gifter_name"`
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	ClaimedBy      int    `json:"claimed_by,omitempty"`
}

// OrderEvent сообщение о созданном заказе.
type OrderEvent struct {
	OrderID   int    `json:"order_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	Total     string `json:"total"`
}
