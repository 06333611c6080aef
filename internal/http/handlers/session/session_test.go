package session

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
)

type fixedIssuer string

func (f fixedIssuer) NewSessionID() string { return string(f) }

func TestHandler_IssuesParsableToken(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), fixedIssuer("sid-42"), maker)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp struct {
		Data Response `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "sid-42", resp.Data.SessionID)

	claims, err := maker.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "sid-42", claims.SessionID)
}
