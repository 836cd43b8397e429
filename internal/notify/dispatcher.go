// Package notify fans a message out to a set of dealer endpoints,
// collecting per-recipient success or failure. Delivery problems are
// always reported in the result, never returned as an error: the
// action that triggered the notification has already succeeded and
// must not be lost because one dealer's channel failed.
package notify

import (
	"context"
	"sync"
)

// Recipient is one delivery target.
type Recipient struct {
	ID          string
	EndpointRef string
	Name        string
}

// Message is the payload handed to the transport. CorrelationID ties
// the delivery back to the record it announces so a later
// acknowledgement can be matched up.
type Message struct {
	Kind          string `json:"kind"`
	Text          string `json:"text"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Failure records a single recipient's delivery error, stringified.
type Failure struct {
	RecipientID string `json:"dealer"`
	Error       string `json:"error"`
}

// Result reports the outcome of a fan-out.
type Result struct {
	Notified []string  `json:"notified"`
	Failures []Failure `json:"failures"`
}

// Sender is the transport a dispatcher delivers through.
type Sender interface {
	Send(ctx context.Context, endpointRef string, msg Message) error
}

// Dispatcher delivers a message to all recipients concurrently. A slow
// or failing recipient never blocks or suppresses delivery to the
// others; every attempt is awaited and its outcome recorded.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher creates a dispatcher over the given transport.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Notify sends msg to every recipient and waits for all attempts,
// regardless of individual outcomes. An empty recipient list returns
// an empty result without attempting any send.
func (d *Dispatcher) Notify(ctx context.Context, recipients []Recipient, msg Message) Result {
	result := Result{Notified: []string{}, Failures: []Failure{}}
	if len(recipients) == 0 {
		return result
	}

	errs := make([]error, len(recipients))
	var wg sync.WaitGroup
	for i, rcpt := range recipients {
		wg.Add(1)
		go func(i int, rcpt Recipient) {
			defer wg.Done()
			errs[i] = d.sender.Send(ctx, rcpt.EndpointRef, msg)
		}(i, rcpt)
	}
	wg.Wait()

	for i, rcpt := range recipients {
		if errs[i] != nil {
			result.Failures = append(result.Failures, Failure{
				RecipientID: rcpt.ID,
				Error:       errs[i].Error(),
			})
			continue
		}
		result.Notified = append(result.Notified, rcpt.ID)
	}
	return result
}
