package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order заказ бутика.
type Order struct {
	ID        int             `json:"id"`
	Number    string          `json:"order_number,omitempty"`
	Status    string          `json:"status"`
	Items     []CartItem      `json:"items,omitempty"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderRequest тело POST /api/orders/create.
type OrderRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	PaymentType string `json:"payment_type" validate:"required"`
	Notes       string `json:"notes,omitempty"`
}

// OrderSummary предварительный расчёт заказа.
type OrderSummary struct {
	Items       []CartItem      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}
