// Package sender отправляет письма по событиям витрины.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	"github.com/magabrotheeeer/drhope-gateway/internal/rabbitmq"
)

var (
	// ErrUnknownEvent — сообщение с неизвестным ключом маршрутизации.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMalformedEvent — тело сообщения не разбирается.
	ErrMalformedEvent = errors.New("malformed event")
)

// Service отправляет уведомления по событиям.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// Handle разбирает событие и отправляет соответствующее письмо.
// Сигнатура совпадает с rabbitmq.Handler.
func (s *Service) Handle(_ context.Context, routingKey string, body []byte) error {
	const op = "sender.Handle"
	switch routingKey {
	case rabbitmq.EventGiftCreated:
		return s.SendGiftCreated(body)
	case rabbitmq.EventGiftClaimed:
		return s.SendGiftClaimed(body)
	case rabbitmq.EventOrderCreated:
		return s.SendOrderCreated(body)
	default:
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownEvent, routingKey)
	}
}

// SendGiftCreated подтверждает дарителю отправку подарка.
func (s *Service) SendGiftCreated(body []byte) error {
	var ev models.GiftEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Error("failed to unmarshal gift event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", ErrMalformedEvent, err)
	}
	if ev.GifterEmail == "" {
		s.log.Warn("gift event without gifter email", slog.String("gift_id", ev.GiftID))
		return nil
	}
	text := fmt.Sprintf("مرحباً %s،\r\n\r\nتم إرسال هديتك إلى %s. ستظهر الورشة في حساب المستلم عند تسجيل الدخول برقم الهاتف %s.\r\n\r\nفريق د. هوب",
		ev.GifterName, ev.RecipientName, ev.RecipientPhone)
	return s.sendEmail([]string{ev.GifterEmail}, "تم إرسال هديتك", text)
}

// SendGiftClaimed сообщает дарителю, что подарок получен.
func (s *Service) SendGiftClaimed(body []byte) error {
	var ev models.GiftEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Error("failed to unmarshal gift event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", ErrMalformedEvent, err)
	}
	if ev.GifterEmail == "" {
		s.log.Warn("gift event without gifter email", slog.String("gift_id", ev.GiftID))
		return nil
	}
	text := fmt.Sprintf("مرحباً %s،\r\n\r\nتم استلام هديتك من قبل %s وأصبحت الورشة متاحة في حساب المستلم.\r\n\r\nفريق د. هوب",
		ev.GifterName, ev.RecipientName)
	return s.sendEmail([]string{ev.GifterEmail}, "تم استلام هديتك", text)
}

// SendOrderCreated подтверждает заказ покупателю.
func (s *Service) SendOrderCreated(body []byte) error {
	var ev models.OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.log.Error("failed to unmarshal order event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w: %w", ErrMalformedEvent, err)
	}
	text := fmt.Sprintf("مرحباً %s،\r\n\r\nتم استلام طلبك رقم %d بقيمة %s درهم.\r\n\r\nفريق د. هوب",
		ev.UserName, ev.OrderID, ev.Total)
	return s.sendEmail([]string{ev.UserEmail}, "تأكيد الطلب", text)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"Content-Transfer-Encoding: 8bit",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
