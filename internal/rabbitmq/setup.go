package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange — direct exchange событий витрины.
const Exchange = "storefront"

// Ключи маршрутизации событий.
const (
	EventGiftCreated  = "gift.created"
	EventGiftClaimed  = "gift.claimed"
	EventOrderCreated = "order.created"
)

// QueueConfig описывает очередь и ключи, которыми она привязана к Exchange.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// NotifierQueues возвращает очереди воркера уведомлений.
func NotifierQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifier.gifts", RoutingKeys: []string{EventGiftCreated, EventGiftClaimed}},
		{QueueName: "notifier.orders", RoutingKeys: []string{EventOrderCreated}},
	}
}

// SetupChannel открывает канал, объявляет Exchange и привязывает очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	if err = ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		for _, key := range q.RoutingKeys {
			if err := ch.QueueBind(q.QueueName, key, Exchange, false, nil); err != nil {
				_ = ch.Close()
				return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, key, err)
			}
		}
	}

	return ch, nil
}
