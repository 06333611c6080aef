package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// Cart возвращает копию кэша корзины.
func (s *Store) Cart() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cart.Clone()
}

// RefreshCart перечитывает корзину с сервера.
func (s *Store) RefreshCart(ctx context.Context) (models.Cart, error) {
	const op = "storefront.RefreshCart"

	token, _, err := s.auth()
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	cart, err := s.api.CartSummary(ctx, token)
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	cart.Recalculate(s.opts.TaxRate)

	s.mu.Lock()
	s.cart = *cart.Clone()
	s.mu.Unlock()
	return *cart, nil
}

// AddToCart добавляет товар. Состояние меняется только после ответа
// сервера со свежей корзиной.
func (s *Store) AddToCart(ctx context.Context, productID, quantity int) (models.Cart, error) {
	const op = "storefront.AddToCart"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	token, _, err := s.auth()
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	if quantity < 1 {
		return models.Cart{}, &ValidationError{Field: "quantity", Message: msgGeneric}
	}

	if err := s.api.CartAdd(ctx, token, productID, quantity); err != nil {
		log.Error("failed to add to cart", slog.Int("product_id", productID), sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	cart, err := s.RefreshCart(ctx)
	if err != nil {
		log.Error("failed to refresh cart", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

// UpdateCartItem меняет количество позиции оптимистично. Если сервер
// отказал, корзина возвращается к снимку до изменения.
func (s *Store) UpdateCartItem(ctx context.Context, itemID, quantity int) (models.Cart, error) {
	const op = "storefront.UpdateCartItem"
	if quantity < 1 {
		return models.Cart{}, &ValidationError{Field: "quantity", Message: msgGeneric}
	}
	return s.mutateCart(ctx, op, itemID, func(c *models.Cart, idx int) {
		c.Items[idx].Quantity = quantity
	}, func(token string) error {
		return s.api.CartUpdate(ctx, token, itemID, quantity)
	})
}

// RemoveFromCart удаляет позицию оптимистично, с откатом при отказе сервера.
func (s *Store) RemoveFromCart(ctx context.Context, itemID int) (models.Cart, error) {
	const op = "storefront.RemoveFromCart"
	return s.mutateCart(ctx, op, itemID, func(c *models.Cart, idx int) {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}, func(token string) error {
		return s.api.CartDelete(ctx, token, itemID)
	})
}

func (s *Store) mutateCart(ctx context.Context, op string, itemID int,
	apply func(c *models.Cart, idx int), call func(token string) error) (models.Cart, error) {
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID), slog.Int("cart_item_id", itemID))

	token, _, err := s.auth()
	if err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	cached := s.cart.Find(itemID) >= 0
	s.mu.RUnlock()
	if !cached {
		// кэш мог не видеть позицию, добавленную до рестарта или в другой вкладке
		if _, err := s.RefreshCart(ctx); err != nil {
			log.Error("failed to refresh cart before mutation", sl.Err(err))
			return models.Cart{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.mu.Lock()
	idx := s.cart.Find(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return models.Cart{}, fmt.Errorf("%s: %w", op, ErrCartItemNotFound)
	}
	snapshot := s.cart.Clone()
	optimistic := s.cart.Clone()
	apply(optimistic, idx)
	optimistic.Recalculate(s.opts.TaxRate)
	s.cart = *optimistic
	s.mu.Unlock()

	if err := call(token); err != nil {
		s.mu.Lock()
		s.cart = *snapshot
		s.mu.Unlock()
		log.Error("cart mutation rejected, rolled back", sl.Err(err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.RefreshCart(ctx)
	if err != nil {
		log.Warn("failed to refresh cart after mutation", sl.Err(err))
		return s.Cart(), nil
	}
	return cart, nil
}
