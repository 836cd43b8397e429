// Package announce composes round-change, rebuy, and elimination
// announcements from the tournament state, records them, and drives
// the notification fan-out. The state mutation always happens first;
// delivery failures are reported back to the caller, never raised.
package announce

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/events"
	"github.com/mkarpis/railbird/internal/models"
	"github.com/mkarpis/railbird/internal/notify"
	"github.com/mkarpis/railbird/internal/tournament"
)

// Announcer wires the store, the dispatcher, and the event publisher.
type Announcer struct {
	store      *tournament.App
	dispatcher *notify.Dispatcher
	publisher  events.Publisher
}

// NewAnnouncer creates an announcer.
func NewAnnouncer(store *tournament.App, dispatcher *notify.Dispatcher, publisher events.Publisher) *Announcer {
	return &Announcer{store: store, dispatcher: dispatcher, publisher: publisher}
}

// AnnounceRound validates, records, and broadcasts a round change. The
// one hard precondition is a round identifier (round, roundNumber, or
// name). When specific tables are named the notification targets only
// dealers assigned to them; otherwise every dealer is notified.
func (a *Announcer) AnnounceRound(ctx context.Context, p RoundPayload) (*AnnounceResult, error) {
	identifier := p.identifier()
	if identifier == "" {
		return nil, apperrors.Validationf("a round identifier (round, roundNumber, or name) is required")
	}

	isBreak := p.Break || p.IsBreak
	rec := models.RoundRecord{
		Label:           identifier,
		IsBreak:         isBreak,
		Blinds:          resolveBlinds(p),
		DurationMinutes: resolveDurationMinutes(p),
		StartTime:       p.StartTime,
		Notes:           p.Notes,
		Tables:          normalizeTables(p.Tables),
	}
	if p.Ante != nil {
		rec.Ante = *p.Ante
	}
	if p.RoundNumber != nil {
		rec.LevelOrdinal = *p.RoundNumber
	} else if !isBreak {
		if n, err := strconv.Atoi(identifier); err == nil {
			rec.LevelOrdinal = n
		}
	}

	dealers := a.targetDealers(rec.Tables)
	stored := a.store.RecordRoundChange(rec)

	result := a.dispatcher.Notify(ctx, toRecipients(dealers), notify.Message{
		Kind:          "round",
		Text:          buildRoundMessage(stored),
		CorrelationID: stored.ID,
	})

	a.publish(ctx, events.EventTypeRoundChanged, events.RoundChangedPayload{
		RoundID:      stored.ID,
		Label:        stored.Label,
		LevelOrdinal: stored.LevelOrdinal,
		IsBreak:      stored.IsBreak,
		Blinds:       stored.Blinds,
		Ante:         stored.Ante,
		Notified:     len(result.Notified),
		Failed:       len(result.Failures),
		ChangedAt:    stored.UpdatedAt,
	})

	return &AnnounceResult{
		Round:    stored,
		Notified: result.Notified,
		Failures: result.Failures,
		Dealers:  dealers,
		Tables:   stored.Tables,
	}, nil
}

// AnnounceLevel announces a schedule level, as the clock controls do
// on advance and restart.
func (a *Announcer) AnnounceLevel(ctx context.Context, lvl models.Level) (*AnnounceResult, error) {
	p := RoundPayload{
		Break:           lvl.IsBreak,
		DurationMinutes: &lvl.DurationMinutes,
	}
	if lvl.IsBreak {
		p.Round = "Break"
	} else {
		p.Round = FlexString(strconv.Itoa(lvl.Ordinal))
		p.RoundNumber = &lvl.Ordinal
		p.SB = &lvl.SmallBlind
		p.BB = &lvl.BigBlind
		p.Ante = &lvl.Ante
	}
	return a.AnnounceRound(ctx, p)
}

// SubmitRebuy records a rebuy for a table and notifies exactly the
// dealer assigned to it. Table is required; a table nobody deals is a
// NotFoundError.
func (a *Announcer) SubmitRebuy(ctx context.Context, p RebuyPayload) (*RebuyResult, error) {
	table := strings.TrimSpace(p.Table)
	if table == "" {
		return nil, apperrors.Validationf("table is required for a rebuy request")
	}
	dealer := a.store.FindDealerByTable(table)
	if dealer == nil {
		return nil, apperrors.NotFoundf("no dealer is registered for table %s", table)
	}

	stored := a.store.RecordRebuy(models.RebuyRecord{
		Table:  dealer.Table,
		Player: strings.TrimSpace(p.Player),
		Amount: strings.TrimSpace(p.Amount),
		Notes:  strings.TrimSpace(p.Notes),
	})

	result := a.dispatcher.Notify(ctx, toRecipients([]models.Dealer{*dealer}), notify.Message{
		Kind: "rebuy",
		Text: buildRebuyMessage(stored),
	})

	a.publish(ctx, events.EventTypeRebuyRecorded, events.RebuyRecordedPayload{
		Table:      stored.Table,
		Player:     stored.Player,
		Amount:     stored.Amount,
		RecordedAt: stored.CreatedAt,
	})

	return &RebuyResult{Rebuy: stored, Notified: result.Notified, Failures: result.Failures}, nil
}

// SubmitElimination records an elimination and broadcasts it to all
// dealers. Player is the only required field.
func (a *Announcer) SubmitElimination(ctx context.Context, p EliminationPayload) (*EliminationResult, error) {
	player := strings.TrimSpace(p.Player)
	if player == "" {
		return nil, apperrors.Validationf("player name is required for eliminations")
	}

	stored := a.store.RecordElimination(models.EliminationRecord{
		Player:   player,
		Table:    strings.TrimSpace(p.Table),
		Position: strings.TrimSpace(p.Position),
		Payout:   strings.TrimSpace(p.Payout),
		Notes:    strings.TrimSpace(p.Notes),
	})

	result := a.dispatcher.Notify(ctx, toRecipients(a.store.Dealers()), notify.Message{
		Kind: "elimination",
		Text: buildEliminationMessage(stored),
	})

	a.publish(ctx, events.EventTypeEliminationRecorded, events.EliminationRecordedPayload{
		Player:     stored.Player,
		Table:      stored.Table,
		Position:   stored.Position,
		RecordedAt: stored.CreatedAt,
	})

	return &EliminationResult{Elimination: stored, Notified: result.Notified, Failures: result.Failures}, nil
}

// targetDealers restricts to dealers on the named tables, or returns
// every dealer for a broadcast when no tables were named.
func (a *Announcer) targetDealers(tables []string) []models.Dealer {
	all := a.store.Dealers()
	if len(tables) == 0 {
		return all
	}
	wanted := make(map[string]bool, len(tables))
	for _, t := range tables {
		wanted[strings.ToLower(strings.TrimSpace(t))] = true
	}
	var out []models.Dealer
	for _, d := range all {
		if wanted[strings.ToLower(strings.TrimSpace(d.Table))] {
			out = append(out, d)
		}
	}
	if out == nil {
		out = []models.Dealer{}
	}
	return out
}

func (a *Announcer) publish(ctx context.Context, eventType events.EventType, payload any) {
	if err := a.publisher.Publish(ctx, eventType, payload); err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to publish event")
	}
}

func toRecipients(dealers []models.Dealer) []notify.Recipient {
	out := make([]notify.Recipient, len(dealers))
	for i, d := range dealers {
		out[i] = notify.Recipient{ID: d.ID, EndpointRef: d.EndpointRef, Name: d.Name()}
	}
	return out
}

func normalizeTables(tables []string) []string {
	out := []string{}
	for _, t := range tables {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolveBlinds(p RoundPayload) string {
	if b := strings.TrimSpace(p.Blinds); b != "" {
		return b
	}
	sb := firstInt(p.SB, p.SmallBlind)
	bb := firstInt(p.BB, p.BigBlind)
	if sb == 0 && bb == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", sb, bb)
}

func resolveDurationMinutes(p RoundPayload) int {
	if p.DurationMinutes != nil {
		return *p.DurationMinutes
	}
	if p.DurationMs != nil {
		return int(math.Round(float64(*p.DurationMs) / 60000))
	}
	return 0
}

func firstInt(candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}
