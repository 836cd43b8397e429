package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSender delivers dealer messages by publishing to the subject
// named by the dealer's endpoint ref, under a configurable prefix.
type NATSSender struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSSender wraps an existing NATS connection with a sender
// publishing under subjectPrefix.
func NewNATSSender(nc *nats.Conn, subjectPrefix string) *NATSSender {
	return &NATSSender{nc: nc, subjectPrefix: subjectPrefix}
}

// Send publishes the message to the dealer's subject. The transport's
// own buffering and reconnect policy bound the delivery; no extra
// timeout is layered on top.
func (s *NATSSender) Send(ctx context.Context, endpointRef string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	subject := endpointRef
	if s.subjectPrefix != "" {
		subject = s.subjectPrefix + "." + endpointRef
	}
	if err := s.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}
