package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// CreateSubscription выполняет POST /api/subscriptions/create.
func (c *Client) CreateSubscription(ctx context.Context, token string, req models.SubscriptionRequest) (*models.Subscription, error) {
	var out models.Subscription
	if err := c.call(ctx, "CreateSubscription", http.MethodPost, "/api/subscriptions/create", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessPayment выполняет POST /api/subscriptions/process-payment.
func (c *Client) ProcessPayment(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResult, error) {
	var out models.PaymentResult
	if err := c.call(ctx, "ProcessPayment", http.MethodPost, "/api/subscriptions/process-payment", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyCharity выполняет POST /api/subscriptions/buy-charity.
func (c *Client) BuyCharity(ctx context.Context, token string, req models.CharityRequest) (*models.PaymentResult, error) {
	var out models.PaymentResult
	if err := c.call(ctx, "BuyCharity", http.MethodPost, "/api/subscriptions/buy-charity", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessCharityPayment выполняет POST /api/subscriptions/process-charity-payment.
func (c *Client) ProcessCharityPayment(ctx context.Context, token string, req models.CharityPaymentRequest) (*models.PaymentResult, error) {
	var out models.PaymentResult
	if err := c.call(ctx, "ProcessCharityPayment", http.MethodPost, "/api/subscriptions/process-charity-payment", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
