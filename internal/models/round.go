package models

import "time"

// RoundRecord is the single current-level announcement broadcast to
// dealers. ID doubles as the correlation id for acknowledgements.
type RoundRecord struct {
	ID              string    `json:"id"`
	Label           string    `json:"round"`
	LevelOrdinal    int       `json:"level_ordinal,omitempty"`
	IsBreak         bool      `json:"is_break,omitempty"`
	Blinds          string    `json:"blinds,omitempty"`
	Ante            int       `json:"ante,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	StartTime       string    `json:"start_time,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Tables          []string  `json:"tables"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RebuyRecord is an append-only log entry for a chip purchase.
type RebuyRecord struct {
	Table     string    `json:"table"`
	Player    string    `json:"player,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EliminationRecord is an append-only log entry for a player removal.
type EliminationRecord struct {
	Player    string    `json:"player"`
	Table     string    `json:"table,omitempty"`
	Position  string    `json:"position,omitempty"`
	Payout    string    `json:"payout,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
