package announce

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mkarpis/railbird/internal/models"
	"github.com/mkarpis/railbird/internal/notify"
)

// FlexString unmarshals from either a JSON string or a JSON number,
// since round identifiers arrive both ways ("Break" vs 3).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// RoundPayload is the raw round-change request as it arrives from the
// API or the clock controls. Field aliases mirror what clients
// actually send; resolution to one canonical record happens once, in
// AnnounceRound.
type RoundPayload struct {
	Round       FlexString `json:"round,omitempty"`
	RoundNumber *int       `json:"roundNumber,omitempty"`
	Name        string     `json:"name,omitempty"`

	Blinds     string `json:"blinds,omitempty"`
	SB         *int   `json:"sb,omitempty"`
	SmallBlind *int   `json:"smallBlind,omitempty"`
	BB         *int   `json:"bb,omitempty"`
	BigBlind   *int   `json:"bigBlind,omitempty"`
	Ante       *int   `json:"ante,omitempty"`

	Break   bool `json:"break,omitempty"`
	IsBreak bool `json:"isBreak,omitempty"`

	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	DurationMs      *int64 `json:"durationMs,omitempty"`

	Tables    []string `json:"tables,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	StartTime string   `json:"startTime,omitempty"`
}

func (p RoundPayload) identifier() string {
	if s := strings.TrimSpace(string(p.Round)); s != "" {
		return s
	}
	if p.RoundNumber != nil {
		return strconv.Itoa(*p.RoundNumber)
	}
	return strings.TrimSpace(p.Name)
}

// RebuyPayload is the raw rebuy request.
type RebuyPayload struct {
	Table  string `json:"table"`
	Player string `json:"player,omitempty"`
	Amount string `json:"amount,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// EliminationPayload is the raw elimination request.
type EliminationPayload struct {
	Player   string `json:"player"`
	Table    string `json:"table,omitempty"`
	Position string `json:"position,omitempty"`
	Payout   string `json:"payout,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// AnnounceResult is what a round announcement returns: the stored
// record plus the fan-out outcome and the resolved target set.
type AnnounceResult struct {
	Round    models.RoundRecord `json:"round"`
	Notified []string           `json:"notified"`
	Failures []notify.Failure   `json:"failures"`
	Dealers  []models.Dealer    `json:"dealers"`
	Tables   []string           `json:"tables"`
}

// RebuyResult reports a recorded rebuy and its delivery outcome.
type RebuyResult struct {
	Rebuy    models.RebuyRecord `json:"rebuy"`
	Notified []string           `json:"notified"`
	Failures []notify.Failure   `json:"failures"`
}

// EliminationResult reports a recorded elimination and its delivery
// outcome.
type EliminationResult struct {
	Elimination models.EliminationRecord `json:"elimination"`
	Notified    []string                 `json:"notified"`
	Failures    []notify.Failure         `json:"failures"`
}
