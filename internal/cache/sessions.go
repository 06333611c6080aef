package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

const (
	keyToken = "auth_token"
	keyUser  = "currentUser"
)

// SessionStore — постоянное хранилище сессии: токен API и текущий пользователь.
// Переживает перезапуск шлюза так же, как localStorage переживает перезагрузку страницы.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessionStore создаёт хранилище. Ключи живут ttl (0 — без срока).
func NewSessionStore(c *Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl}
}

func sessionKey(sessionID, name string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, name)
}

// Save сохраняет токен и проекцию пользователя.
func (s *SessionStore) Save(ctx context.Context, sessionID, token string, user *models.User) error {
	const op = "cache.SessionStore.Save"
	if err := s.cache.Set(ctx, sessionKey(sessionID, keyToken), token, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil
	}
	if err := s.cache.Set(ctx, sessionKey(sessionID, keyUser), user.Persisted(), s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load возвращает сохранённые токен и пользователя. found=false, если токена нет.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (token string, user *models.User, found bool, err error) {
	const op = "cache.SessionStore.Load"
	found, err = s.cache.Get(ctx, sessionKey(sessionID, keyToken), &token)
	if err != nil {
		return "", nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found || token == "" {
		return "", nil, false, nil
	}

	var persisted models.PersistedUser
	ok, err := s.cache.Get(ctx, sessionKey(sessionID, keyUser), &persisted)
	if err != nil {
		return "", nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		user = persisted.Restore()
	}
	return token, user, true, nil
}

// Clear удаляет токен и пользователя.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	const op = "cache.SessionStore.Clear"
	if err := s.cache.Invalidate(ctx, sessionKey(sessionID, keyToken), sessionKey(sessionID, keyUser)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
