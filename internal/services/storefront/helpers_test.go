package storefront

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	"github.com/magabrotheeeer/drhope-gateway/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var errStorageDown = errors.New("storage unavailable")

type memSessions struct {
	mu    sync.Mutex
	data  map[string]memSession
	saves int
	// loadFailures — сколько ближайших Load вернут errStorageDown.
	loadFailures int
	loads        int
}

type memSession struct {
	token string
	user  models.PersistedUser
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string]memSession{}}
}

func (m *memSessions) Save(_ context.Context, sessionID, token string, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	s := memSession{token: token}
	if user != nil {
		s.user = user.Persisted()
	}
	m.data[sessionID] = s
	return nil
}

func (m *memSessions) Load(_ context.Context, sessionID string) (string, *models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadFailures > 0 {
		m.loadFailures--
		return "", nil, false, errStorageDown
	}
	s, ok := m.data[sessionID]
	if !ok {
		return "", nil, false, nil
	}
	return s.token, s.user.Restore(), true, nil
}

func (m *memSessions) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

// memGifts повторяет семантику repository.Storage в памяти.
type memGifts struct {
	mu    sync.Mutex
	gifts []*models.PendingGift
	// fail — ошибка, которую вернёт метод с этим именем.
	fail map[string]error
}

func (m *memGifts) failOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail == nil {
		m.fail = map[string]error{}
	}
	m.fail[method] = err
}

func (m *memGifts) find(id string) *models.PendingGift {
	for _, g := range m.gifts {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (m *memGifts) transition(method, id, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[method]; err != nil {
		return err
	}
	g := m.find(id)
	if g == nil {
		return repository.ErrGiftNotFound
	}
	if g.Status != from {
		return repository.ErrGiftState
	}
	g.Status = to
	return nil
}

func (m *memGifts) CreatePendingGift(_ context.Context, g models.PendingGift) (*models.PendingGift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["CreatePendingGift"]; err != nil {
		return nil, err
	}
	g.ID = uuid.NewString()
	if g.Status == "" {
		g.Status = models.GiftAwaitingPayment
	}
	g.CreatedAt = time.Now().UTC()
	m.gifts = append(m.gifts, &g)
	out := g
	return &out, nil
}

func (m *memGifts) MarkGiftPaid(_ context.Context, giftID string) error {
	return m.transition("MarkGiftPaid", giftID, models.GiftAwaitingPayment, models.GiftPending)
}

func (m *memGifts) CancelGift(_ context.Context, giftID string) error {
	return m.transition("CancelGift", giftID, models.GiftAwaitingPayment, models.GiftCancelled)
}

func (m *memGifts) ListClaimableGifts(_ context.Context, phone string, userID int) ([]models.PendingGift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PendingGift
	for _, g := range m.gifts {
		if g.RecipientPhone != phone || g.Status != models.GiftPending {
			continue
		}
		if g.ClaimedByUserID == nil || *g.ClaimedByUserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memGifts) ClaimGift(_ context.Context, giftID string, userID int) (*models.PendingGift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.find(giftID)
	if g == nil {
		return nil, repository.ErrGiftNotFound
	}
	if g.Status != models.GiftPending || (g.ClaimedByUserID != nil && *g.ClaimedByUserID != userID) {
		return nil, repository.ErrGiftClaimed
	}
	id := userID
	g.ClaimedByUserID = &id
	g.Status = models.GiftClaiming
	if g.ClaimedAt == nil {
		now := time.Now().UTC()
		g.ClaimedAt = &now
	}
	out := *g
	return &out, nil
}

func (m *memGifts) ReleaseGift(_ context.Context, giftID string, userID int) error {
	m.mu.Lock()
	g := m.find(giftID)
	owned := g != nil && g.ClaimedByUserID != nil && *g.ClaimedByUserID == userID
	m.mu.Unlock()
	if g != nil && !owned {
		return repository.ErrGiftState
	}
	return m.transition("ReleaseGift", giftID, models.GiftClaiming, models.GiftPending)
}

func (m *memGifts) AttachGiftSubscription(_ context.Context, giftID string, subscriptionID int) error {
	if err := m.transition("AttachGiftSubscription", giftID, models.GiftClaiming, models.GiftClaimed); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := subscriptionID
	m.find(giftID).ClaimedSubscriptionID = &id
	return nil
}

func (m *memGifts) ListGiftsByGifter(_ context.Context, gifterUserID int) ([]models.PendingGift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PendingGift
	for _, g := range m.gifts {
		if g.GifterUserID == gifterUserID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memGifts) get(id string) models.PendingGift {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g := m.find(id); g != nil {
		return *g
	}
	return models.PendingGift{}
}

func (m *memGifts) all() []models.PendingGift {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PendingGift, 0, len(m.gifts))
	for _, g := range m.gifts {
		out = append(out, *g)
	}
	return out
}

// seedGift кладёт оплаченный подарок, готовый к получению.
func (e *testEnv) seedGift(t *testing.T, g models.PendingGift) models.PendingGift {
	t.Helper()
	g.Status = models.GiftPending
	created, err := e.gifts.CreatePendingGift(context.Background(), g)
	require.NoError(t, err)
	return *created
}

type recordedEvent struct {
	key   string
	event any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(_ context.Context, routingKey string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{key: routingKey, event: event})
	return nil
}

func (r *eventRecorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.key)
	}
	return out
}

type testEnv struct {
	upstream *fakeUpstream
	sessions *memSessions
	gifts    *memGifts
	events   *eventRecorder
	manager  *Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	upstream, srv := newFakeUpstream(t)
	env := &testEnv{
		upstream: upstream,
		sessions: newMemSessions(),
		gifts:    &memGifts{},
		events:   &eventRecorder{},
	}
	env.manager = env.newManager(drhope.NewClient(srv.URL, 5*time.Second, nil))
	return env
}

func (e *testEnv) newManager(api API) *Manager {
	return NewManager(api, e.sessions, e.gifts, e.events, Options{
		TaxRate:            decimal.RequireFromString("0.05"),
		DefaultCountryCode: "971",
	}, newNoopLogger())
}
