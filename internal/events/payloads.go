// Package events defines the domain events the backend publishes for
// display boards and other observers, and the publishers that carry
// them.
package events

import "time"

// EventType names a domain event.
type EventType string

const (
	EventTypeRoundChanged        EventType = "RoundChanged"
	EventTypeRebuyRecorded       EventType = "RebuyRecorded"
	EventTypeEliminationRecorded EventType = "EliminationRecorded"
	EventTypeClockTick           EventType = "ClockTick"
	EventTypeClockStateChanged   EventType = "ClockStateChanged"
)

// RoundChangedPayload is emitted after a round change is recorded and
// dealers have been notified.
type RoundChangedPayload struct {
	RoundID      string    `json:"round_id"`
	Label        string    `json:"round"`
	LevelOrdinal int       `json:"level_ordinal,omitempty"`
	IsBreak      bool      `json:"is_break,omitempty"`
	Blinds       string    `json:"blinds,omitempty"`
	Ante         int       `json:"ante,omitempty"`
	Notified     int       `json:"notified"`
	Failed       int       `json:"failed"`
	ChangedAt    time.Time `json:"changed_at"`
}

// RebuyRecordedPayload is emitted after a rebuy is logged.
type RebuyRecordedPayload struct {
	Table      string    `json:"table"`
	Player     string    `json:"player,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// EliminationRecordedPayload is emitted after an elimination is
// logged.
type EliminationRecordedPayload struct {
	Player     string    `json:"player"`
	Table      string    `json:"table,omitempty"`
	Position   string    `json:"position,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ClockTickPayload carries the once-per-second countdown update.
type ClockTickPayload struct {
	CurrentLevelIndex int   `json:"current_level_index"`
	RemainingMs       int64 `json:"remaining_ms"`
	Running           bool  `json:"running"`
	Finished          bool  `json:"finished"`
}

// ClockStateChangedPayload is emitted on start/pause/advance/retreat/
// reset/restart.
type ClockStateChangedPayload struct {
	Action            string `json:"action"`
	CurrentLevelIndex int    `json:"current_level_index"`
	RemainingMs       int64  `json:"remaining_ms"`
	Running           bool   `json:"running"`
	Finished          bool   `json:"finished"`
}
