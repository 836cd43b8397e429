package models

import "time"

// Level represents one segment of the tournament schedule: either a
// blind level or a break. Ordinals are 1-based and contiguous across
// non-break levels; break entries carry no ordinal.
type Level struct {
	Ordinal         int  `json:"ordinal,omitempty"`
	IsBreak         bool `json:"is_break,omitempty"`
	SmallBlind      int  `json:"small_blind,omitempty"`
	BigBlind        int  `json:"big_blind,omitempty"`
	Ante            int  `json:"ante,omitempty"`
	DurationMinutes int  `json:"duration_minutes"`
}

// Duration returns the level length as a time.Duration.
func (l Level) Duration() time.Duration {
	return time.Duration(l.DurationMinutes) * time.Minute
}

// ClockState is the externally visible state of the level clock.
type ClockState struct {
	CurrentLevelIndex int   `json:"current_level_index"`
	RemainingMs       int64 `json:"remaining_ms"`
	Running           bool  `json:"running"`
	Finished          bool  `json:"finished"`
}
