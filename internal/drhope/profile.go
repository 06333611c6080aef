package drhope

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// ProfileDetails выполняет GET /api/profile/details.
func (c *Client) ProfileDetails(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.call(ctx, "ProfileDetails", http.MethodGet, "/api/profile/details", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuggestWorkshops выполняет GET /api/profile/suggest-workshops.
func (c *Client) SuggestWorkshops(ctx context.Context, token string) ([]models.Workshop, error) {
	var out []models.Workshop
	if err := c.call(ctx, "SuggestWorkshops", http.MethodGet, "/api/profile/suggest-workshops", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReview выполняет POST /api/profile/review.
func (c *Client) AddReview(ctx context.Context, token string, req models.ReviewRequest) (*models.Review, error) {
	var out models.Review
	if err := c.call(ctx, "AddReview", http.MethodPost, "/api/profile/review", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Certificate скачивает сертификат подписки (PDF или HTML).
func (c *Client) Certificate(ctx context.Context, token, subscriptionID string) (*RawDocument, error) {
	return c.fetchRaw(ctx, "Certificate", fmt.Sprintf("/api/profile/certificate/%s", subscriptionID), token)
}

// Invoice скачивает счёт подписки (PDF или HTML).
func (c *Client) Invoice(ctx context.Context, token, subscriptionID string) (*RawDocument, error) {
	return c.fetchRaw(ctx, "Invoice", fmt.Sprintf("/api/profile/invoice/%s", subscriptionID), token)
}
