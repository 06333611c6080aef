package models

import "time"

// Статусы подписки. Клиент никогда не владеет статусом, он всегда
// перечитывается из профиля.
const (
	StatusActive      = "ACTIVE"
	StatusRefunded    = "REFUNDED"
	StatusTransferred = "TRANSFERRED"
	StatusPending     = "PENDING"
	StatusCompleted   = "COMPLETED"
)

// Способы оплаты.
const (
	PaymentGift   = "GIFT"
	PaymentCard   = "CARD"
	PaymentCredit = "CREDIT"
)

// Subscription связь пользователя и мастер-класса.
type Subscription struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id,omitempty"`
	WorkshopID     int       `json:"workshop_id"`
	Workshop       *Workshop `json:"workshop,omitempty"`
	PackageID      *int      `json:"package_id,omitempty"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	IsApproved     bool      `json:"is_approved"`
	IsGift         bool      `json:"is_gift"`
	GiftFrom       string    `json:"gift_from,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty"`
	RecipientPhone string    `json:"recipient_phone,omitempty"`
	PaidAmount     float64   `json:"paid_amount,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubscriptionRequest тело POST /api/subscriptions/create.
type SubscriptionRequest struct {
	WorkshopID     int    `json:"workshop_id" validate:"required,gt=0"`
	PackageID      *int   `json:"package_id,omitempty"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
	IsApproved     bool   `json:"is_approved,omitempty"`
	IsGift         bool   `json:"is_gift,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	RecipientPhone string `json:"recipient_phone,omitempty"`
	GiftMessage    string `json:"gift_message,omitempty"`
	UserID         int    `json:"user_id,omitempty"`
}

// PaymentRequest тело POST /api/subscriptions/process-payment.
type PaymentRequest struct {
	SubscriptionID int    `json:"subscription_id" validate:"required,gt=0"`
	PaymentType    string `json:"payment_type" validate:"required"`
}

// PaymentResult ответ платёжных операций (ссылка на оплату или подтверждение).
type PaymentResult struct {
	SubscriptionID int     `json:"subscription_id,omitempty"`
	CharityID      int     `json:"charity_id,omitempty"`
	PaymentURL     string  `json:"payment_url,omitempty"`
	Status         string  `json:"status,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
}

// CharityRequest покупка мест "заплати вперёд".
type CharityRequest struct {
	WorkshopID    int    `json:"workshop_id" validate:"required,gt=0"`
	PackageID     *int   `json:"package_id,omitempty"`
	NumberOfSeats int    `json:"number_of_seats" validate:"required,gt=0"`
	PaymentType   string `json:"payment_type" validate:"required"`
}

// CharityPaymentRequest подтверждение оплаты благотворительных мест.
type CharityPaymentRequest struct {
	CharityID   int    `json:"charity_id" validate:"required,gt=0"`
	PaymentType string `json:"payment_type" validate:"required"`
}
