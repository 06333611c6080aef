// Package storefront — состояние витрины одной браузерной сессии.
//
// Store — единственный источник правды о пользователе, каталоге, корзине и
// контенте сессии и единственный компонент, обращающийся к REST API за
// общими данными. Методы никогда не паникуют: отказ возвращается ошибкой,
// предыдущее состояние при этом сохраняется.
package storefront

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// Options — бизнес-настройки витрины.
type Options struct {
	TaxRate            decimal.Decimal
	DefaultCountryCode string
}

type deps struct {
	api      API
	sessions SessionPersistence
	gifts    GiftRepository
	events   EventPublisher
	opts     Options
	log      *slog.Logger
	now      func() time.Time
}

// Store — состояние одной сессии. Безопасен для одновременного использования;
// сетевые вызовы выполняются без удержания блокировки, поэтому при гонке двух
// изменений корзины побеждает последний ответ.
type Store struct {
	deps
	sessionID string
	lastSeen  atomic.Int64

	// restored выставляется, когда хранилище сессий ответило. До этого
	// каждый Get повторяет восстановление.
	restoreMu sync.Mutex
	restored  atomic.Bool

	mu             sync.RWMutex
	token          string
	user           *models.User
	workshops      []models.Workshop
	countries      []models.Country
	settings       models.Settings
	earliest       *models.Workshop
	products       []models.Product
	partners       []models.Partner
	videos         []models.MediaItem
	gallery        []models.MediaItem
	instagramLives []models.MediaItem
	reviews        []models.Review
	cart           models.Cart
	consultations  []models.ConsultationRequest
	sentGifts      []models.PendingGift
}

// State — снимок состояния для UI.
type State struct {
	SessionID      string                       `json:"session_id"`
	Authenticated  bool                         `json:"authenticated"`
	User           *models.User                 `json:"user,omitempty"`
	Cart           models.Cart                  `json:"cart"`
	CartCount      int                          `json:"cart_count"`
	Catalog        models.Catalog               `json:"catalog"`
	Content        models.Content               `json:"content"`
	Consultations  []models.ConsultationRequest `json:"consultations,omitempty"`
	SentGifts      []models.PendingGift         `json:"sent_gifts,omitempty"`
	UnreadMessages int                          `json:"unread_notifications"`
}

func newStore(sessionID string, d deps) *Store {
	s := &Store{deps: d, sessionID: sessionID}
	s.cart.Recalculate(d.opts.TaxRate)
	return s
}

// SessionID возвращает идентификатор сессии.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Snapshot возвращает копию состояния.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		SessionID:     s.sessionID,
		Authenticated: s.token != "" && s.user != nil,
		User:          cloneUser(s.user),
		Cart:          *s.cart.Clone(),
		CartCount:     s.cart.Count(),
		Catalog: models.Catalog{
			Countries:        append([]models.Country(nil), s.countries...),
			Settings:         s.settings,
			Workshops:        append([]models.Workshop(nil), s.workshops...),
			EarliestWorkshop: s.earliest,
		},
		Content: models.Content{
			Videos:         append([]models.MediaItem(nil), s.videos...),
			Gallery:        append([]models.MediaItem(nil), s.gallery...),
			InstagramLives: append([]models.MediaItem(nil), s.instagramLives...),
			Partners:       append([]models.Partner(nil), s.partners...),
			Products:       append([]models.Product(nil), s.products...),
			Reviews:        append([]models.Review(nil), s.reviews...),
		},
		Consultations: append([]models.ConsultationRequest(nil), s.consultations...),
		SentGifts:     append([]models.PendingGift(nil), s.sentGifts...),
	}
	if s.user != nil {
		for _, n := range s.user.Notifications {
			if !n.IsRead {
				st.UnreadMessages++
			}
		}
	}
	return st
}

// CurrentUser возвращает копию текущего пользователя или nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// Token возвращает bearer-токен API текущей сессии.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// auth возвращает токен и копию пользователя либо ErrNotAuthenticated.
func (s *Store) auth() (string, *models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return "", nil, ErrNotAuthenticated
	}
	return s.token, cloneUser(s.user), nil
}

// notifyLocked добавляет уведомление пользователю. Вызывается под s.mu.
func (s *Store) notifyLocked(kind, title, message string) {
	if s.user == nil {
		return
	}
	s.user.Notifications = append(s.user.Notifications, models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: s.now().UTC(),
	})
}

func (s *Store) notify(kind, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked(kind, title, message)
}

func (s *Store) publish(ctx context.Context, routingKey string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("routing_key", routingKey), sl.Session(s.sessionID), sl.Err(err))
	}
}

func (s *Store) countryCode(u *models.User) string {
	if u != nil && u.CountryCode != "" {
		return u.CountryCode
	}
	return s.opts.DefaultCountryCode
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	out.Subscriptions = append([]models.Subscription(nil), u.Subscriptions...)
	out.Orders = append([]models.Order(nil), u.Orders...)
	out.Notifications = append([]models.Notification(nil), u.Notifications...)
	out.CreditTransactions = append([]models.CreditTransaction(nil), u.CreditTransactions...)
	return &out
}

// Manager хранит Store всех активных сессий.
type Manager struct {
	deps

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager создаёт менеджер сессий. events может быть nil.
func NewManager(api API, sessions SessionPersistence, gifts GiftRepository, events EventPublisher,
	opts Options, log *slog.Logger) *Manager {
	return &Manager{
		deps: deps{
			api:      api,
			sessions: sessions,
			gifts:    gifts,
			events:   events,
			opts:     opts,
			log:      log,
			now:      time.Now,
		},
		stores: make(map[string]*Store),
	}
}

// NewSessionID выдаёт идентификатор новой сессии.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// Get возвращает Store сессии. Пока состояние не поднято из постоянного
// хранилища, каждое обращение пробует восстановить его заново.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	s, ok := m.stores[sessionID]
	if !ok {
		s = newStore(sessionID, m.deps)
		m.stores[sessionID] = s
	}
	s.lastSeen.Store(m.now().UnixNano())
	m.mu.Unlock()

	if !s.restored.Load() {
		s.restoreMu.Lock()
		if !s.restored.Load() {
			if err := s.Restore(ctx); err != nil {
				m.log.Warn("failed to restore session", sl.Session(sessionID), sl.Err(err))
			}
		}
		s.restoreMu.Unlock()
	}
	return s
}

// Forget удаляет Store сессии из памяти.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

// Evict выгружает из памяти сессии, к которым не обращались дольше idle.
// Постоянное состояние остаётся в хранилище и поднимается при следующем Get.
func (m *Manager) Evict(idle time.Duration) int {
	cutoff := m.now().Add(-idle).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.stores {
		if s.lastSeen.Load() < cutoff {
			delete(m.stores, id)
			evicted++
		}
	}
	return evicted
}

// Len возвращает число сессий в памяти.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
