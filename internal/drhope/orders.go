package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// OrderSummary выполняет GET /api/orders/summary.
func (c *Client) OrderSummary(ctx context.Context, token string) (*models.OrderSummary, error) {
	var out models.OrderSummary
	if err := c.call(ctx, "OrderSummary", http.MethodGet, "/api/orders/summary", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder выполняет POST /api/orders/create.
func (c *Client) CreateOrder(ctx context.Context, token string, req models.OrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.call(ctx, "CreateOrder", http.MethodPost, "/api/orders/create", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
