package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

type cartAddRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type cartUpdateRequest struct {
	CartItemID int `json:"cart_item_id"`
	Quantity   int `json:"quantity"`
}

type cartDeleteRequest struct {
	CartItemID int `json:"cart_item_id"`
}

// CartAdd выполняет POST /api/cart/add.
func (c *Client) CartAdd(ctx context.Context, token string, productID, quantity int) error {
	return c.call(ctx, "CartAdd", http.MethodPost, "/api/cart/add", token,
		cartAddRequest{ProductID: productID, Quantity: quantity}, nil)
}

// CartSummary выполняет GET /api/cart/summary.
func (c *Client) CartSummary(ctx context.Context, token string) (*models.Cart, error) {
	var out models.Cart
	if err := c.call(ctx, "CartSummary", http.MethodGet, "/api/cart/summary", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CartUpdate выполняет PUT /api/cart/update.
func (c *Client) CartUpdate(ctx context.Context, token string, itemID, quantity int) error {
	return c.call(ctx, "CartUpdate", http.MethodPut, "/api/cart/update", token,
		cartUpdateRequest{CartItemID: itemID, Quantity: quantity}, nil)
}

// CartDelete выполняет DELETE /api/cart/delete-item.
func (c *Client) CartDelete(ctx context.Context, token string, itemID int) error {
	return c.call(ctx, "CartDelete", http.MethodDelete, "/api/cart/delete-item", token,
		cartDeleteRequest{CartItemID: itemID}, nil)
}
