// Package events announces accepted orders on the shared events exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

const publishTimeout = 3 * time.Second

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch  channel
	now func() time.Time
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel) (*Publisher, error) {
	// Declare the exchange so publish never fails due to missing infra
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}
	return &Publisher{ch: ch, now: time.Now}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced implements shop.OrderEvents.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev shop.OrderPlaced) error {
	env := BuildOrderPlacedEnvelope(ev, middleware.GetCorrelationID(ctx), p.now())
	if err := env.Validate(orderPlacedEventName, orderPlacedEventVersion); err != nil {
		return fmt.Errorf("invalid %s event: %w", orderPlacedEventName, err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", orderPlacedEventName, err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, env.EventID, env.CorrelationID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID, correlationID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     p.now().UTC(),
			Body:          body,
		},
	)
}
