package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

func list[T any](ctx context.Context, c *Client, endpoint, path string) ([]T, error) {
	var out []T
	if err := c.call(ctx, endpoint, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Videos выполняет GET /api/drhope/videos.
func (c *Client) Videos(ctx context.Context) ([]models.MediaItem, error) {
	return list[models.MediaItem](ctx, c, "Videos", "/api/drhope/videos")
}

// Gallery выполняет GET /api/drhope/gallery.
func (c *Client) Gallery(ctx context.Context) ([]models.MediaItem, error) {
	return list[models.MediaItem](ctx, c, "Gallery", "/api/drhope/gallery")
}

// InstagramLives выполняет GET /api/drhope/instagram-lives.
func (c *Client) InstagramLives(ctx context.Context) ([]models.MediaItem, error) {
	return list[models.MediaItem](ctx, c, "InstagramLives", "/api/drhope/instagram-lives")
}

// Partners выполняет GET /api/drhope/partners.
func (c *Client) Partners(ctx context.Context) ([]models.Partner, error) {
	return list[models.Partner](ctx, c, "Partners", "/api/drhope/partners")
}

// Products выполняет GET /api/drhope/products.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	return list[models.Product](ctx, c, "Products", "/api/drhope/products")
}

// Reviews выполняет GET /api/drhope/reviews.
func (c *Client) Reviews(ctx context.Context) ([]models.Review, error) {
	return list[models.Review](ctx, c, "Reviews", "/api/drhope/reviews")
}

// Support выполняет POST /api/drhope/support.
func (c *Client) Support(ctx context.Context, token string, req models.SupportRequest) error {
	return c.call(ctx, "Support", http.MethodPost, "/api/drhope/support", token, req, nil)
}
