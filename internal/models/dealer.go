package models

import "time"

// Dealer is a table operator registered to receive table-specific and
// broadcast notifications. EndpointRef is the delivery address the
// notification transport understands (for the NATS sender, a subject).
type Dealer struct {
	ID          string    `json:"id"`
	EndpointRef string    `json:"endpoint_ref"`
	Table       string    `json:"table,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Name returns a human-readable label for the dealer.
func (d Dealer) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.ID
}
