// Package notifier собирает воркер, который рассылает письма по событиям витрины.
package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/drhope-gateway/internal/config"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/drhope-gateway/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/drhope-gateway/internal/services/sender"
)

// App — воркер уведомлений.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.Service
	queues []rabbitmq.QueueConfig
	logger *slog.Logger
}

// New подключается к брокеру и объявляет очереди воркера.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.NotifierQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:   conn,
		ch:     ch,
		sender: senderservice.New(transport, logger),
		queues: queues,
		logger: logger,
	}, nil
}

// Run читает очереди до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	handler := dropPoison(a.logger, a.sender.Handle)
	for _, q := range a.queues {
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, q.QueueName, handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}

// dropPoison подтверждает сообщения, которые не обработать никогда:
// повторная доставка их не исправит.
func dropPoison(log *slog.Logger, next rabbitmq.Handler) rabbitmq.Handler {
	return func(ctx context.Context, routingKey string, body []byte) error {
		err := next(ctx, routingKey, body)
		if errors.Is(err, senderservice.ErrUnknownEvent) || errors.Is(err, senderservice.ErrMalformedEvent) {
			log.Warn("dropping unprocessable event", slog.String("routing_key", routingKey), sl.Err(err))
			return nil
		}
		return err
	}
}
