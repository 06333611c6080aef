package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/drhope-gateway/internal/cache"
	"github.com/magabrotheeeer/drhope-gateway/internal/config"
	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	docservice "github.com/magabrotheeeer/drhope-gateway/internal/services/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

type noGifts struct{}

func (noGifts) CreatePendingGift(_ context.Context, g models.PendingGift) (*models.PendingGift, error) {
	return &g, nil
}

func (noGifts) ListClaimableGifts(context.Context, string, int) ([]models.PendingGift, error) {
	return nil, nil
}

func (noGifts) ClaimGift(context.Context, string, int) (*models.PendingGift, error) {
	return nil, nil
}

func (noGifts) AttachGiftSubscription(context.Context, string, int) error { return nil }

func (noGifts) MarkGiftPaid(context.Context, string) error { return nil }

func (noGifts) CancelGift(context.Context, string) error { return nil }

func (noGifts) ReleaseGift(context.Context, string, int) error { return nil }

func (noGifts) ListGiftsByGifter(context.Context, int) ([]models.PendingGift, error) {
	return nil, nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Phone != "0501234567" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"key": "validation_error", "msg": "رقم الهاتف غير صحيح",
				"errors": map[string]any{"phone": []string{"invalid"}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"key": "success",
			"data": map[string]any{
				"token": "upstream-token",
				"user":  map[string]any{"id": 7, "full_name": "سارة أحمد", "email": req.Email, "phone": req.Phone},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	registry := prometheus.NewRegistry()
	api := drhope.NewClient(newUpstream(t).URL, 5*time.Second, drhope.NewMetrics(registry))
	log := newNoopLogger()
	manager := storefront.NewManager(api, cache.NewSessionStore(c, time.Hour), noGifts{}, discardEvents{log: log},
		storefront.Options{TaxRate: decimal.RequireFromString("0.05"), DefaultCountryCode: "971"}, log)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:    log,
		Manager:   manager,
		Maker:     jwt.NewJWTMaker("test_secret", time.Hour),
		Documents: docservice.New(api, nil, nil, log),
		Limiter:   middlewarectx.NewRateLimiter(100, 100),
		Gatherer:  registry,
	})
	return router
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp map[string]any
	if rr.Header().Get("Content-Type") != "" && rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	}
	return rr, resp
}

func TestRoutes_SessionLoginState(t *testing.T) {
	router := newTestRouter(t)

	rr, _ := call(t, router, http.MethodGet, "/api/v1/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, resp := call(t, router, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	token := resp["data"].(map[string]any)["token"].(string)

	rr, resp = call(t, router, http.MethodPost, "/api/v1/auth/login", token,
		map[string]string{"email": "sara@example.com", "phone": "0500000000"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "phone", resp["data"].(map[string]any)["reason"])

	rr, _ = call(t, router, http.MethodPost, "/api/v1/auth/login", token,
		map[string]string{"email": "sara@example.com", "phone": "0501234567"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, resp = call(t, router, http.MethodGet, "/api/v1/state", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, true, data["authenticated"])
	assert.NotContains(t, rr.Body.String(), "upstream-token")

	rr, _ = call(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `drhope_upstream_requests_total{endpoint="Login",outcome="rejected"} 1`)
}

func TestRoutes_DocumentsRequireLogin(t *testing.T) {
	router := newTestRouter(t)

	_, resp := call(t, router, http.MethodPost, "/api/v1/sessions", "", nil)
	token := resp["data"].(map[string]any)["token"].(string)

	rr, _ := call(t, router, http.MethodGet, "/api/v1/subscriptions/sub-1/invoice", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
