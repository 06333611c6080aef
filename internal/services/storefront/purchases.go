package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	"github.com/magabrotheeeer/drhope-gateway/internal/rabbitmq"
)

// CreateSubscription записывает пользователя на мастер-класс.
func (s *Store) CreateSubscription(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	const op = "storefront.CreateSubscription"
	token, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.UserID = user.ID

	sub, err := s.api.CreateSubscription(ctx, token, req)
	if err != nil {
		s.log.Error("failed to create subscription", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.Subscriptions = append(s.user.Subscriptions, *sub)
	}
	s.notifyLocked("subscription", "تم إنشاء الاشتراك", "أكمل الدفع لتأكيد مقعدك في الورشة")
	s.mu.Unlock()
	return sub, nil
}

// ProcessPayment оплачивает подписку. Статус подписки после оплаты
// перечитывается из профиля.
func (s *Store) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	const op = "storefront.ProcessPayment"
	token, _, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.api.ProcessPayment(ctx, token, req)
	if err != nil {
		s.log.Error("payment failed", slog.String("op", op), sl.Session(s.sessionID),
			slog.Int("subscription_id", req.SubscriptionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.FetchProfile(ctx); err != nil {
		s.log.Warn("failed to refresh profile after payment", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
	}
	s.notify("payment", "تمت عملية الدفع", "شكراً لك، تم استلام الدفع")
	return res, nil
}

// BuyCharity покупает места «оплати вперёд» для анонимных участников.
func (s *Store) BuyCharity(ctx context.Context, req models.CharityRequest) (*models.PaymentResult, error) {
	const op = "storefront.BuyCharity"
	token, _, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.NumberOfSeats < 1 {
		return nil, &ValidationError{Field: "number_of_seats", Message: "يرجى اختيار عدد المقاعد"}
	}

	res, err := s.api.BuyCharity(ctx, token, req)
	if err != nil {
		s.log.Error("failed to buy charity seats", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.notify("charity", "شكراً لعطائك", fmt.Sprintf("تم حجز %d مقعد لمن يحتاجه", req.NumberOfSeats))
	return res, nil
}

// ProcessCharityPayment оплачивает покупку «оплати вперёд».
func (s *Store) ProcessCharityPayment(ctx context.Context, req models.CharityPaymentRequest) (*models.PaymentResult, error) {
	const op = "storefront.ProcessCharityPayment"
	token, _, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.api.ProcessCharityPayment(ctx, token, req)
	if err != nil {
		s.log.Error("charity payment failed", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.notify("charity", "تمت عملية الدفع", "شكراً لك، تم استلام الدفع")
	return res, nil
}

// OrderSummary возвращает предварительный расчёт заказа.
func (s *Store) OrderSummary(ctx context.Context) (*models.OrderSummary, error) {
	const op = "storefront.OrderSummary"
	token, _, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	summary, err := s.api.OrderSummary(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// CreateOrder оформляет заказ из корзины и очищает локальную корзину.
func (s *Store) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	const op = "storefront.CreateOrder"
	token, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.api.CreateOrder(ctx, token, req)
	if err != nil {
		s.log.Error("failed to create order", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	if s.user != nil {
		s.user.Orders = append(s.user.Orders, *order)
	}
	s.cart = models.Cart{}
	s.cart.Recalculate(s.opts.TaxRate)
	s.notifyLocked("order", "تم استلام طلبك", fmt.Sprintf("رقم الطلب %s", order.Number))
	s.mu.Unlock()

	s.publish(ctx, rabbitmq.EventOrderCreated, models.OrderEvent{
		OrderID:   order.ID,
		UserEmail: user.Email,
		UserName:  user.FullName,
		Total:     order.Total.StringFixed(2),
	})
	return order, nil
}
