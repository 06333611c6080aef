package drhope

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// AuthResult — ответ входа и регистрации.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterRequest — тело POST /api/register.
type RegisterRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	CountryCode  string `json:"country_code" validate:"required"`
	AcceptsTerms bool   `json:"accepts_terms"`
}

type loginRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Login выполняет POST /api/login.
func (c *Client) Login(ctx context.Context, email, phone string) (*AuthResult, error) {
	var out AuthResult
	if err := c.call(ctx, "Login", http.MethodPost, "/api/login", "", loginRequest{Email: email, Phone: phone}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register выполняет POST /api/register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.call(ctx, "Register", http.MethodPost, "/api/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout выполняет POST /api/logout.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, "Logout", http.MethodPost, "/api/logout", token, nil, nil)
}
