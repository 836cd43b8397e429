package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Incoming is one chat interaction forwarded by the chat-service
// adapter over NATS.
type Incoming struct {
	Type       string `json:"type"` // command | callback | text
	Actor      Actor  `json:"actor"`
	Command    string `json:"command,omitempty"`
	CallbackID string `json:"callback_id,omitempty"`
	Data       string `json:"data,omitempty"`
	Text       string `json:"text,omitempty"`
}

// outgoing is the wire form of a reply published back to the adapter.
type outgoing struct {
	ChatRef  string     `json:"chat_ref"`
	Text     string     `json:"text"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
	Callback *callback  `json:"callback,omitempty"`
}

type callback struct {
	ID    string `json:"id"`
	Text  string `json:"text,omitempty"`
	Alert bool   `json:"alert,omitempty"`
}

// NATSTransport implements ChatTransport by publishing replies to
// <prefix>.chat.outgoing; the concrete chat service adapter (the
// external collaborator that actually talks to Telegram or whatever
// else) subscribes there.
type NATSTransport struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSTransport wraps an existing NATS connection.
func NewNATSTransport(nc *nats.Conn, prefix string) *NATSTransport {
	return &NATSTransport{nc: nc, prefix: prefix}
}

func (t *NATSTransport) publish(msg outgoing) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outgoing chat message: %w", err)
	}
	subject := t.prefix + ".chat.outgoing"
	if err := t.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

func (t *NATSTransport) SendMessage(ctx context.Context, chatRef, text string) error {
	return t.publish(outgoing{ChatRef: chatRef, Text: text})
}

func (t *NATSTransport) SendKeyboard(ctx context.Context, chatRef, text string, rows [][]Button) error {
	return t.publish(outgoing{ChatRef: chatRef, Text: text, Keyboard: rows})
}

func (t *NATSTransport) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	return t.publish(outgoing{Callback: &callback{ID: callbackID, Text: text, Alert: alert}})
}

// RunNATSBridge subscribes to <prefix>.chat.incoming and routes each
// interaction into the session until the context is canceled.
func RunNATSBridge(ctx context.Context, nc *nats.Conn, prefix string, session *Session) error {
	subject := prefix + ".chat.incoming"
	msgCh := make(chan *nats.Msg, 64)
	sub, err := nc.ChanSubscribe(subject, msgCh)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	log.Info().Str("subject", subject).Msg("chat bridge started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("chat bridge shutting down")
			return nil
		case msg := <-msgCh:
			var in Incoming
			if err := json.Unmarshal(msg.Data, &in); err != nil {
				log.Error().Err(err).Msg("failed to decode incoming chat message")
				continue
			}
			if err := dispatch(ctx, session, in); err != nil {
				log.Error().
					Err(err).
					Str("type", in.Type).
					Str("dealer_id", in.Actor.ID).
					Msg("chat interaction failed")
			}
		}
	}
}

func dispatch(ctx context.Context, session *Session, in Incoming) error {
	switch in.Type {
	case "command":
		return session.HandleCommand(ctx, in.Actor, in.Command)
	case "callback":
		return session.HandleCallback(ctx, in.Actor, in.CallbackID, in.Data)
	case "text":
		return session.HandleText(ctx, in.Actor, in.Text)
	default:
		log.Warn().Str("type", in.Type).Msg("unknown chat interaction type")
		return nil
	}
}
