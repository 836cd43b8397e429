// Package structure converts raw level definitions, as they arrive
// from config files or the structure editor, into the canonical
// ordered schedule the clock runs on.
package structure

import (
	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/models"
)

// RawLevelEntry is one entry of a raw structure definition. Numeric
// fields may arrive under several aliases; Normalize resolves the
// first present alias in a fixed priority order. Any supplied round
// number is ignored: ordinals always reflect array order.
type RawLevelEntry struct {
	Break   bool `json:"break,omitempty" yaml:"break,omitempty"`
	IsBreak bool `json:"is_break,omitempty" yaml:"is_break,omitempty"`

	Round *int `json:"round,omitempty" yaml:"round,omitempty"`

	SB           *int `json:"sb,omitempty" yaml:"sb,omitempty"`
	SmallBlind   *int `json:"smallBlind,omitempty" yaml:"smallBlind,omitempty"`
	SmallBlindSC *int `json:"small_blind,omitempty" yaml:"small_blind,omitempty"`

	BB         *int `json:"bb,omitempty" yaml:"bb,omitempty"`
	BigBlind   *int `json:"bigBlind,omitempty" yaml:"bigBlind,omitempty"`
	BigBlindSC *int `json:"big_blind,omitempty" yaml:"big_blind,omitempty"`

	Ante *int `json:"ante,omitempty" yaml:"ante,omitempty"`

	Time              *int `json:"time,omitempty" yaml:"time,omitempty"`
	DurationMinutes   *int `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`
	DurationMinutesSC *int `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
}

func firstOf(candidates ...*int) (int, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

// Normalize converts raw entries into a canonical ordered sequence of
// levels and breaks. Non-break entries are renumbered sequentially by
// position; break entries keep no ordinal and are skipped when
// renumbering. Duration is the only field with no safe default: a
// missing duration yields a ValidationError. Empty input yields an
// empty schedule, which callers must treat as "no structure
// configured".
func Normalize(raw []RawLevelEntry) ([]models.Level, error) {
	levels := make([]models.Level, 0, len(raw))
	ordinal := 0
	for i, entry := range raw {
		duration, ok := firstOf(entry.Time, entry.DurationMinutes, entry.DurationMinutesSC)
		if !ok {
			return nil, apperrors.Validationf("structure entry %d has no duration", i)
		}

		if entry.Break || entry.IsBreak {
			levels = append(levels, models.Level{
				IsBreak:         true,
				DurationMinutes: duration,
			})
			continue
		}

		ordinal++
		sb, _ := firstOf(entry.SB, entry.SmallBlind, entry.SmallBlindSC)
		bb, _ := firstOf(entry.BB, entry.BigBlind, entry.BigBlindSC)
		ante := 0
		if entry.Ante != nil {
			ante = *entry.Ante
		}
		levels = append(levels, models.Level{
			Ordinal:         ordinal,
			SmallBlind:      sb,
			BigBlind:        bb,
			Ante:            ante,
			DurationMinutes: duration,
		})
	}
	return levels, nil
}
