package storefront

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "server message", err: fmt.Errorf("op: %w", &drhope.APIError{Key: "fail", Message: "الورشة ممتلئة"}), want: "الورشة ممتلئة"},
		{name: "server without message", err: &drhope.APIError{Key: "fail"}, want: msgGeneric},
		{name: "transport", err: fmt.Errorf("op: %w", drhope.ErrTransport), want: msgGeneric},
		{name: "self gift", err: fmt.Errorf("op: %w", ErrSelfGift), want: msgSelfGift},
		{name: "not authenticated", err: ErrNotAuthenticated, want: msgNotAuthenticated},
		{name: "validation", err: &ValidationError{Field: "phone", Message: "x"}, want: "x"},
		{name: "unsettled gift", err: fmt.Errorf("op: %w", &UnsettledGiftError{GiftID: "g", SubscriptionID: 5, Err: errors.New("db")}), want: msgUnsettledGift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestClassifyAuth(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "concurrent", err: &drhope.APIError{Key: "concurrent_session"}, want: ReasonConcurrentSession},
		{name: "email field", err: &drhope.APIError{Key: "fail", Fields: map[string]any{"email": "taken"}}, want: ReasonEmail},
		{name: "phone field", err: &drhope.APIError{Key: "fail", Fields: map[string]any{"phone": "taken"}}, want: ReasonPhone},
		{name: "other business", err: &drhope.APIError{Key: "fail"}, want: ReasonGeneric},
		{name: "transport", err: errors.New("dial tcp: refused"), want: ReasonGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAuth(tt.err)
			assert.Equal(t, tt.want, got.Reason)
			assert.NotEmpty(t, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
