package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orderdesk/internal/domain/model"
)

const exchange = "orderdesk.notifications"

// Publisher delivers user-facing notification events. Delivery is best
// effort; callers never treat a publish failure as their own failure.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// AMQPPublisher publishes events to a topic exchange, routing key per event kind.
type AMQPPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, logger: logger}, nil
}

// Publish sends the event with its kind as routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, event model.Event) error {
	body, err := json.Marshal(struct {
		Kind       model.EventKind `json:"kind"`
		OrderID    int64           `json:"order_id"`
		OrderTitle string          `json:"order_title"`
		UserID     int64           `json:"user_id"`
		OccurredAt time.Time       `json:"occurred_at"`
	}{event.Kind, event.OrderID, event.OrderTitle, event.UserID, event.OccurredAt})
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, exchange, string(event.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.Event) error { return nil }
func (NoopPublisher) Close() error                               { return nil }
