package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ AlertPublisher = (*RabbitPublisher)(nil)

const queueName = "geofence_alerts"

// RabbitPublisher fans geofence alerts out on a durable fanout exchange.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	exch string
}

func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queueName, "", exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exch: exchange}, nil
}

func (p *RabbitPublisher) PublishAlert(ctx context.Context, alert *Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return p.ch.PublishWithContext(ctx, p.exch, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *RabbitPublisher) Close() error {
	return p.conn.Close()
}
