package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// Login входит по email и телефону. При успехе токен и пользователь
// сохраняются, затем забираются ожидающие подарки.
func (s *Store) Login(ctx context.Context, email, phone string) (*models.User, error) {
	const op = "storefront.Login"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	email, phone = strings.TrimSpace(email), strings.TrimSpace(phone)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: msgEmail}
	}
	if phone == "" {
		return nil, &ValidationError{Field: "phone", Message: msgPhone}
	}

	res, err := s.api.Login(ctx, email, phone)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, classifyAuth(err))
	}
	if res.Token == "" || res.User == nil {
		log.Error("login response without token or user")
		return nil, fmt.Errorf("%s: %w", op, &AuthError{Reason: ReasonGeneric, Message: msgGeneric, Err: drhope.ErrUnexpectedResponse})
	}

	return s.startSession(ctx, log, res.Token, res.User), nil
}

// Register регистрирует пользователя и сразу открывает сессию.
func (s *Store) Register(ctx context.Context, req drhope.RegisterRequest) (*models.User, error) {
	const op = "storefront.Register"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	if strings.TrimSpace(req.FullName) == "" {
		return nil, &ValidationError{Field: "full_name", Message: msgGeneric}
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Message: msgEmail}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, &ValidationError{Field: "phone", Message: msgPhone}
	}
	if req.CountryCode == "" {
		req.CountryCode = s.opts.DefaultCountryCode
	}

	res, err := s.api.Register(ctx, req)
	if err != nil {
		log.Error("register failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, classifyAuth(err))
	}
	if res.Token == "" || res.User == nil {
		log.Error("register response without token or user")
		return nil, fmt.Errorf("%s: %w", op, &AuthError{Reason: ReasonGeneric, Message: msgGeneric, Err: drhope.ErrUnexpectedResponse})
	}
	if res.User.Phone == "" {
		res.User.Phone = req.Phone
	}
	if res.User.CountryCode == "" {
		res.User.CountryCode = req.CountryCode
	}

	return s.startSession(ctx, log, res.Token, res.User), nil
}

func (s *Store) startSession(ctx context.Context, log *slog.Logger, token string, user *models.User) *models.User {
	s.mu.Lock()
	s.token = token
	s.user = cloneUser(user)
	s.mu.Unlock()
	s.restored.Store(true)

	if err := s.sessions.Save(ctx, s.sessionID, token, user); err != nil {
		log.Error("failed to persist session", sl.Err(err))
	}

	claimed, err := s.CheckAndClaimPendingGifts(ctx, user)
	if err != nil {
		log.Error("failed to claim pending gifts", sl.Err(err))
	}
	if claimed > 0 {
		log.Info("pending gifts claimed", slog.Int("count", claimed))
	}
	return s.CurrentUser()
}

// Logout закрывает сессию: уведомляет API (ошибка только логируется)
// и очищает память и постоянное хранилище.
func (s *Store) Logout(ctx context.Context) error {
	const op = "storefront.Logout"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	s.mu.Lock()
	token := s.token
	s.token = ""
	s.user = nil
	s.cart = models.Cart{}
	s.cart.Recalculate(s.opts.TaxRate)
	s.consultations = nil
	s.sentGifts = nil
	s.mu.Unlock()
	s.restored.Store(true)

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			log.Warn("upstream logout failed", sl.Err(err))
		}
	}
	if err := s.sessions.Clear(ctx, s.sessionID); err != nil {
		log.Error("failed to clear persisted session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Restore поднимает токен и пользователя из постоянного хранилища и сверяет
// пользователя с сервером. Просроченный токен очищает сессию. Ошибка чтения
// хранилища оставляет сессию невосстановленной, и Manager.Get повторит попытку.
func (s *Store) Restore(ctx context.Context) error {
	const op = "storefront.Restore"

	token, user, found, err := s.sessions.Load(ctx, s.sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.restored.Store(true)
	if !found {
		return nil
	}

	s.mu.Lock()
	if s.token != "" {
		// сессию уже открыли в этом процессе
		s.mu.Unlock()
		return nil
	}
	s.token = token
	s.user = user
	s.mu.Unlock()

	if _, err := s.FetchProfile(ctx); err != nil {
		var apiErr *drhope.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			s.mu.Lock()
			s.token, s.user = "", nil
			s.mu.Unlock()
			if clearErr := s.sessions.Clear(ctx, s.sessionID); clearErr != nil {
				return fmt.Errorf("%s: %w", op, clearErr)
			}
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FetchProfile заменяет текущего пользователя ответом профиля целиком.
func (s *Store) FetchProfile(ctx context.Context) (*models.User, error) {
	const op = "storefront.FetchProfile"

	token, current, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.api.ProfileDetails(ctx, token)
	if err != nil {
		s.log.Error("failed to fetch profile", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.CountryCode == "" {
		user.CountryCode = current.CountryCode
	}

	s.mu.Lock()
	if s.token != token {
		// сессия сменилась, пока шёл запрос
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}
	s.user = cloneUser(user)
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, s.sessionID, token, user); err != nil {
		s.log.Error("failed to persist profile", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
	}
	return cloneUser(user), nil
}
