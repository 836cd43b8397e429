package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender writes messages to the log instead of a transport. Used
// when no NATS connection is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, endpointRef string, msg Message) error {
	log.Info().
		Str("endpoint", endpointRef).
		Str("kind", msg.Kind).
		Str("correlation_id", msg.CorrelationID).
		Str("text", msg.Text).
		Msg("dealer notification")
	return nil
}
