package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Envelope is the wire form of a published event.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType EventType       `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Publisher emits domain events. Publish failures are the caller's to
// log; events are observability fan-out, never part of the mutation.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, payload any) error
}

// NATSPublisher publishes envelopes to <prefix>.events.<type>.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher wraps an existing NATS connection.
func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix}
}

func (p *NATSPublisher) Publish(ctx context.Context, eventType EventType, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	envelope := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payloadBytes,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	subject := fmt.Sprintf("%s.events.%s", p.prefix, eventType)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// LogPublisher is the fallback when no message bus is configured: it
// logs events instead of publishing them.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, eventType EventType, payload any) error {
	log.Debug().Str("event_type", string(eventType)).Interface("payload", payload).Msg("event")
	return nil
}
