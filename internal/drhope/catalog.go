package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// Countries выполняет GET /api/countries.
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	if err := c.call(ctx, "Countries", http.MethodGet, "/api/countries", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings выполняет GET /api/home/settings.
func (c *Client) Settings(ctx context.Context) (models.Settings, error) {
	out := models.Settings{}
	if err := c.call(ctx, "Settings", http.MethodGet, "/api/home/settings", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Workshops выполняет GET /api/workshops. С токеном API отмечает подписки пользователя.
func (c *Client) Workshops(ctx context.Context, token string) ([]models.Workshop, error) {
	var out []models.Workshop
	if err := c.call(ctx, "Workshops", http.MethodGet, "/api/workshops", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EarliestWorkshop выполняет GET /api/home/earliest-workshop.
func (c *Client) EarliestWorkshop(ctx context.Context) (*models.Workshop, error) {
	var out *models.Workshop
	if err := c.call(ctx, "EarliestWorkshop", http.MethodGet, "/api/home/earliest-workshop", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
