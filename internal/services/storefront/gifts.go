package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/phone"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	"github.com/magabrotheeeer/drhope-gateway/internal/rabbitmq"
	"github.com/magabrotheeeer/drhope-gateway/internal/storage/repository"
)

// CreateGift дарит место на мастер-классе получателю, известному только по
// имени и номеру WhatsApp. Подарок самому себе отклоняется до обращения к сети.
// Запись подарка создаётся до оплаты и открывается получателю только после неё,
// поэтому оплаченный подарок без записи невозможен.
func (s *Store) CreateGift(ctx context.Context, req models.GiftRequest) (*models.GiftResult, error) {
	const op = "storefront.CreateGift"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	token, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.RecipientName = strings.TrimSpace(req.RecipientName)
	if req.RecipientName == "" {
		return nil, &ValidationError{Field: "recipient_name", Message: "يرجى إدخال اسم المستلم"}
	}
	if strings.TrimSpace(req.RecipientPhone) == "" {
		return nil, &ValidationError{Field: "recipient_phone", Message: "يرجى إدخال رقم واتساب المستلم"}
	}

	recipientCC := req.RecipientCountry
	if recipientCC == "" {
		recipientCC = s.opts.DefaultCountryCode
	}
	if phone.Equal(user.Phone, s.countryCode(user), req.RecipientPhone, recipientCC) {
		return nil, fmt.Errorf("%s: %w", op, ErrSelfGift)
	}
	recipient := phone.Normalize(req.RecipientPhone, recipientCC)

	sub, err := s.api.CreateSubscription(ctx, token, models.SubscriptionRequest{
		WorkshopID:     req.WorkshopID,
		PackageID:      req.PackageID,
		PaymentMethod:  req.PaymentType,
		IsGift:         true,
		RecipientName:  req.RecipientName,
		RecipientPhone: recipient,
		GiftMessage:    req.Message,
		UserID:         user.ID,
	})
	if err != nil {
		log.Error("failed to create gift subscription", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gift, err := s.gifts.CreatePendingGift(ctx, models.PendingGift{
		Status:               models.GiftAwaitingPayment,
		WorkshopID:           req.WorkshopID,
		PackageID:            req.PackageID,
		GifterUserID:         user.ID,
		GifterName:           user.FullName,
		GifterEmail:          user.Email,
		RecipientName:        req.RecipientName,
		RecipientPhone:       recipient,
		Message:              req.Message,
		SourceSubscriptionID: sub.ID,
	})
	if err != nil {
		log.Error("failed to store pending gift", slog.Int("subscription_id", sub.ID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("gift_id", gift.ID), slog.Int("subscription_id", sub.ID))

	payment, err := s.api.ProcessPayment(ctx, token, models.PaymentRequest{
		SubscriptionID: sub.ID,
		PaymentType:    req.PaymentType,
	})
	if err != nil {
		log.Error("failed to pay for gift", sl.Err(err))
		if cancelErr := s.gifts.CancelGift(ctx, gift.ID); cancelErr != nil {
			log.Error("failed to cancel unpaid gift", sl.Err(cancelErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.gifts.MarkGiftPaid(ctx, gift.ID); err != nil {
		log.Error("gift paid but not settled", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, &UnsettledGiftError{GiftID: gift.ID, SubscriptionID: sub.ID, Err: err})
	}
	gift.Status = models.GiftPending

	s.mu.Lock()
	s.sentGifts = append(s.sentGifts, *gift)
	s.notifyLocked("gift", "تم إرسال الهدية",
		fmt.Sprintf("ستصل الهدية إلى %s عند تسجيل الدخول برقم الهاتف", req.RecipientName))
	s.mu.Unlock()

	s.publish(ctx, rabbitmq.EventGiftCreated, models.GiftEvent{
		GiftID:         gift.ID,
		WorkshopID:     gift.WorkshopID,
		GifterEmail:    user.Email,
		GifterName:     user.FullName,
		RecipientName:  gift.RecipientName,
		RecipientPhone: gift.RecipientPhone,
	})

	log.Info("gift created")
	return &models.GiftResult{Gift: *gift, Payment: *payment}, nil
}

// ListSentGifts возвращает подарки, отправленные текущим пользователем.
func (s *Store) ListSentGifts(ctx context.Context) ([]models.PendingGift, error) {
	const op = "storefront.ListSentGifts"

	_, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	gifts, err := s.gifts.ListGiftsByGifter(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.sentGifts = append([]models.PendingGift(nil), gifts...)
	s.mu.Unlock()
	return gifts, nil
}

// CheckAndClaimPendingGifts превращает оплаченные подарки на номер user в
// активные подписки. Подарок сначала переводится в claiming условным UPDATE,
// поэтому параллельные входы одного пользователя создают подписку один раз.
// В pending подарок возвращается, только если API явно отказал в создании
// подписки. Остальные сбои оставляют его в claiming для ручной сверки.
// Возвращает число полученных подарков.
func (s *Store) CheckAndClaimPendingGifts(ctx context.Context, user *models.User) (int, error) {
	const op = "storefront.CheckAndClaimPendingGifts"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	if user == nil || user.Phone == "" {
		return 0, nil
	}
	token := s.Token()
	if token == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	normalized := phone.Normalize(user.Phone, s.countryCode(user))
	pending, err := s.gifts.ListClaimableGifts(ctx, normalized, user.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	claimed := 0
	for _, g := range pending {
		glog := log.With(slog.String("gift_id", g.ID))
		gift, err := s.gifts.ClaimGift(ctx, g.ID, user.ID)
		if err != nil {
			if !errors.Is(err, repository.ErrGiftClaimed) {
				glog.Error("failed to claim gift", sl.Err(err))
			}
			continue
		}

		sub, err := s.api.CreateSubscription(ctx, token, models.SubscriptionRequest{
			WorkshopID:    gift.WorkshopID,
			PackageID:     gift.PackageID,
			PaymentMethod: models.PaymentGift,
			IsApproved:    true,
			IsGift:        true,
			UserID:        user.ID,
		})
		if err != nil {
			var apiErr *drhope.APIError
			if !errors.As(err, &apiErr) {
				glog.Error("gifted subscription outcome unknown, gift left claiming", sl.Err(err))
				continue
			}
			glog.Error("failed to create gifted subscription", sl.Err(err))
			if relErr := s.gifts.ReleaseGift(ctx, gift.ID, user.ID); relErr != nil {
				glog.Error("failed to release gift", sl.Err(relErr))
			}
			continue
		}
		if err := s.gifts.AttachGiftSubscription(ctx, gift.ID, sub.ID); err != nil {
			// подписка уже есть: подарок остаётся в claiming и не выдаётся снова
			glog.Error("failed to attach subscription to gift",
				slog.Int("subscription_id", sub.ID), sl.Err(err))
		}

		if sub.Status == "" {
			sub.Status = models.StatusActive
		}
		sub.IsGift = true
		sub.GiftFrom = gift.GifterName

		s.mu.Lock()
		if s.user != nil && s.user.ID == user.ID {
			s.user.Subscriptions = append(s.user.Subscriptions, *sub)
			s.notifyLocked("gift", "وصلتك هدية",
				fmt.Sprintf("هدية من %s: مقعد في ورشة", gift.GifterName))
		}
		s.mu.Unlock()

		s.publish(ctx, rabbitmq.EventGiftClaimed, models.GiftEvent{
			GiftID:         gift.ID,
			WorkshopID:     gift.WorkshopID,
			GifterEmail:    gift.GifterEmail,
			GifterName:     gift.GifterName,
			RecipientName:  gift.RecipientName,
			RecipientPhone: gift.RecipientPhone,
			ClaimedBy:      user.ID,
		})
		claimed++
	}
	return claimed, nil
}
