package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeType = "topic"

	OrderPlacedRoutingKey    = "order.placed"
	InventoryDriftRoutingKey = "inventory.drift"
)

// OrderPlaced is published after an order row has been written.
type OrderPlaced struct {
	EventID    string      `json:"eventId"`
	OrderID    string      `json:"orderId"`
	Items      []EventItem `json:"items"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// InventoryDrift reports a compensation that failed, leaving spaces lower than they should be.
type InventoryDrift struct {
	EventID    string    `json:"eventId"`
	LessonID   int64     `json:"lessonId"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventItem struct {
	LessonID int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch       Channel
	exchange string
	log      *zap.Logger
}

func NewPublisher(ch Channel, exchange string, log *zap.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log.With(zap.String("publisher", exchange)),
	}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, ev)
}

func (p *Publisher) PublishInventoryDrift(ctx context.Context, ev InventoryDrift) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return p.publishJSON(ctx, InventoryDriftRoutingKey, ev)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug("Event published", zap.String("routing_key", routingKey))
	return nil
}

// Dial connects to RabbitMQ, retrying while the broker starts, and declares
// the topic exchange. The caller closes the returned connection.
func Dial(url, exchange string, log *zap.Logger) (*amqp.Connection, *Publisher, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return conn, NewPublisher(ch, exchange, log), nil
}

// NopPublisher drops every event; used when AMQP_URL is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error       { return nil }
func (NopPublisher) PublishInventoryDrift(context.Context, InventoryDrift) error { return nil }
