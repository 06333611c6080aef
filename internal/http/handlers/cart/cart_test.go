package cart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) RefreshCart(ctx context.Context) (models.Cart, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *StoreMock) AddToCart(ctx context.Context, productID, quantity int) (models.Cart, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *StoreMock) UpdateCartItem(ctx context.Context, itemID, quantity int) (models.Cart, error) {
	args := m.Called(ctx, itemID, quantity)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *StoreMock) RemoveFromCart(ctx context.Context, itemID int) (models.Cart, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(models.Cart), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRouter(store *StoreMock) http.Handler {
	h := New(newNoopLogger(), func(context.Context, string) Service { return store })
	r := chi.NewRouter()
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.Add)
	r.Put("/cart/items/{id}", h.Update)
	r.Delete("/cart/items/{id}", h.Remove)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req = req.WithContext(middlewarectx.WithSessionID(req.Context(), "sid-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCartHandlers(t *testing.T) {
	cart := models.Cart{Total: decimal.RequireFromString("78.75")}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setup          func(*StoreMock)
		wantStatusCode int
		wantInBody     string
	}{
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/cart",
			setup: func(m *StoreMock) {
				m.On("RefreshCart", mock.Anything).Return(cart, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantInBody:     "78.75",
		},
		{
			name:   "add",
			method: http.MethodPost,
			path:   "/cart/items",
			body:   `{"product_id":101,"quantity":1}`,
			setup: func(m *StoreMock) {
				m.On("AddToCart", mock.Anything, 101, 1).Return(cart, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "add zero quantity",
			method:         http.MethodPost,
			path:           "/cart/items",
			body:           `{"product_id":101,"quantity":0}`,
			setup:          func(*StoreMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/cart/items/5",
			body:   `{"quantity":3}`,
			setup: func(m *StoreMock) {
				m.On("UpdateCartItem", mock.Anything, 5, 3).Return(cart, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "update bad id",
			method:         http.MethodPut,
			path:           "/cart/items/abc",
			body:           `{"quantity":3}`,
			setup:          func(*StoreMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "remove unknown item",
			method: http.MethodDelete,
			path:   "/cart/items/8",
			setup: func(m *StoreMock) {
				m.On("RemoveFromCart", mock.Anything, 8).
					Return(models.Cart{}, fmt.Errorf("storefront.RemoveFromCart: %w", storefront.ErrCartItemNotFound)).Once()
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "not logged in",
			method: http.MethodGet,
			path:   "/cart",
			setup: func(m *StoreMock) {
				m.On("RefreshCart", mock.Anything).Return(models.Cart{}, storefront.ErrNotAuthenticated).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(StoreMock)
			tt.setup(store)

			rr := do(newRouter(store), tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantInBody)
			}
			store.AssertExpectations(t)
		})
	}
}
