package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/logger"
)

// Event is the wire envelope published on the bus.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Handler processes a single decoded event.
type Handler func(ctx context.Context, event *Event) error

// Bus is a thin wrapper over a NATS connection with JSON envelopes.
type Bus struct {
	conn *nats.Conn
}

// Connect establishes a NATS connection with sane reconnect defaults.
func Connect(url string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}
	return &Bus{conn: conn}, nil
}

// Publish encodes payload and publishes it under subject. The event type
// equals the subject (e.g. "order.confirmed" on subject "orders.confirmed").
func (b *Bus) Publish(ctx context.Context, subject, eventType, eventID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	envelope, err := json.Marshal(Event{
		ID:         eventID,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	return b.conn.Publish(subject, envelope)
}

// Subscribe registers a queue subscription. Handler errors are logged, not retried.
func (b *Bus) Subscribe(ctx context.Context, subject, queue string, handler Handler) error {
	_, err := b.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warn("eventbus: dropping malformed event",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}

		if err := handler(ctx, &event); err != nil {
			logger.Error("eventbus: handler failed",
				zap.String("subject", msg.Subject),
				zap.String("type", event.Type),
				zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the underlying connection.
func (b *Bus) Close() {
	if b.conn != nil {
		_ = b.conn.Drain()
	}
}
