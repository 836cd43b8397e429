// Package tournament holds the canonical in-memory tournament state:
// dealers, the current round, and the rebuy/elimination logs. Every
// mutation is written through a Snapshotter immediately; the in-memory
// state stays authoritative for the process lifetime even when a
// durable write fails.
package tournament

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/models"
)

// Snapshotter is the durable medium the state is mirrored to. Load is
// called once at construction, Save after every mutation.
type Snapshotter interface {
	Load() (*models.TournamentState, error)
	Save(state *models.TournamentState) error
}

// App owns the tournament state and funnels all mutations through a
// single mutex, mirroring the single-writer profile the persistence
// discipline assumes.
type App struct {
	mu           sync.Mutex
	state        *models.TournamentState
	snap         Snapshotter
	clk          clockwork.Clock
	recentRounds []models.RoundRecord
}

// NewApp creates the store and loads any previously persisted state.
// A load failure starts the tournament from an empty state rather than
// refusing to boot.
func NewApp(snap Snapshotter, clk clockwork.Clock) *App {
	state, err := snap.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load persisted state, starting empty")
		state = nil
	}
	if state == nil {
		state = models.NewTournamentState()
	}
	if state.Dealers == nil {
		state.Dealers = make(map[string]models.Dealer)
	}
	if state.Rebuys == nil {
		state.Rebuys = []models.RebuyRecord{}
	}
	if state.Eliminations == nil {
		state.Eliminations = []models.EliminationRecord{}
	}
	return &App{state: state, snap: snap, clk: clk}
}

// persist writes the current state through the snapshotter. Failures
// are logged and swallowed: the write is best effort and never rolls
// back the in-memory mutation it follows.
func (a *App) persist() {
	if err := a.snap.Save(a.state); err != nil {
		perr := &apperrors.PersistenceError{Op: "save", Err: err}
		log.Error().Err(perr).Msg("failed to persist tournament state")
	}
}

// AssignDealer upserts a dealer by id. The table value is trimmed but
// uniqueness is not checked here; callers verify the table is free
// before calling (a concurrent-writer race the request layer accepts).
func (a *App) AssignDealer(req AssignDealerRequest) models.Dealer {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clk.Now()
	dealer := models.Dealer{
		ID:          req.ID,
		EndpointRef: req.EndpointRef,
		Table:       strings.TrimSpace(req.Table),
		DisplayName: req.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dealer.EndpointRef == "" {
		dealer.EndpointRef = dealer.ID
	}
	if existing, ok := a.state.Dealers[req.ID]; ok {
		dealer.CreatedAt = existing.CreatedAt
	}
	a.state.Dealers[dealer.ID] = dealer
	a.persist()

	log.Info().
		Str("dealer_id", dealer.ID).
		Str("table", dealer.Table).
		Msg("dealer assigned")
	return dealer
}

// UnassignDealer removes a dealer if present and returns the removed
// record, or nil when no assignment existed.
func (a *App) UnassignDealer(id string) *models.Dealer {
	a.mu.Lock()
	defer a.mu.Unlock()

	existing, ok := a.state.Dealers[id]
	if !ok {
		return nil
	}
	delete(a.state.Dealers, id)
	a.persist()

	log.Info().Str("dealer_id", id).Msg("dealer unassigned")
	return &existing
}

// Dealer returns the dealer with the given id, or nil.
func (a *App) Dealer(id string) *models.Dealer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.state.Dealers[id]; ok {
		return &d
	}
	return nil
}

// Dealers returns all dealers sorted by table (numerically when both
// tables parse as numbers), then by id.
func (a *App) Dealers() []models.Dealer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dealersLocked()
}

func (a *App) dealersLocked() []models.Dealer {
	out := make([]models.Dealer, 0, len(a.state.Dealers))
	for _, d := range a.state.Dealers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Table, out[j].Table
		if ti == tj {
			return out[i].ID < out[j].ID
		}
		ni, errI := strconv.Atoi(ti)
		nj, errJ := strconv.Atoi(tj)
		if errI == nil && errJ == nil {
			return ni < nj
		}
		return ti < tj
	})
	return out
}

// FindDealerByTable returns the first dealer whose table matches after
// trimming and case folding, or nil. If duplicate assignments slipped
// in, whichever sorts first wins.
func (a *App) FindDealerByTable(table string) *models.Dealer {
	normalized := strings.ToLower(strings.TrimSpace(table))
	if normalized == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, d := range a.dealersLocked() {
		if strings.ToLower(strings.TrimSpace(d.Table)) == normalized {
			dealer := d
			return &dealer
		}
	}
	return nil
}

// RecordRoundChange replaces the current round record, assigning a
// fresh correlation id when the payload has none, and retains the
// prior record in a bounded ring for acknowledgement correlation.
func (a *App) RecordRoundChange(rec models.RoundRecord) models.RoundRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Tables == nil {
		rec.Tables = []string{}
	}
	rec.UpdatedAt = a.clk.Now()

	if prev := a.state.CurrentRound; prev != nil {
		a.recentRounds = append(a.recentRounds, *prev)
		if len(a.recentRounds) > recentRoundsCap {
			a.recentRounds = a.recentRounds[len(a.recentRounds)-recentRoundsCap:]
		}
	}
	a.state.CurrentRound = &rec
	a.persist()

	log.Info().
		Str("round_id", rec.ID).
		Str("round", rec.Label).
		Bool("is_break", rec.IsBreak).
		Msg("round change recorded")
	return rec
}

// RoundByCorrelationID looks up the current or a recently replaced
// round record by its correlation id.
func (a *App) RoundByCorrelationID(id string) *models.RoundRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cur := a.state.CurrentRound; cur != nil && cur.ID == id {
		rec := *cur
		return &rec
	}
	for i := len(a.recentRounds) - 1; i >= 0; i-- {
		if a.recentRounds[i].ID == id {
			rec := a.recentRounds[i]
			return &rec
		}
	}
	return nil
}

// RecordRebuy appends a rebuy log entry. Required-field checks happen
// before the store is reached.
func (a *App) RecordRebuy(rec models.RebuyRecord) models.RebuyRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec.CreatedAt = a.clk.Now()
	a.state.Rebuys = append(a.state.Rebuys, rec)
	a.persist()

	log.Info().Str("table", rec.Table).Str("player", rec.Player).Msg("rebuy recorded")
	return rec
}

// RecordElimination appends an elimination log entry.
func (a *App) RecordElimination(rec models.EliminationRecord) models.EliminationRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec.CreatedAt = a.clk.Now()
	a.state.Eliminations = append(a.state.Eliminations, rec)
	a.persist()

	log.Info().Str("player", rec.Player).Str("table", rec.Table).Msg("elimination recorded")
	return rec
}

// GetState returns a snapshot safe for serialization: dealers as a
// sorted slice and copies of the log slices.
func (a *App) GetState() models.StateSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	rebuys := make([]models.RebuyRecord, len(a.state.Rebuys))
	copy(rebuys, a.state.Rebuys)
	eliminations := make([]models.EliminationRecord, len(a.state.Eliminations))
	copy(eliminations, a.state.Eliminations)

	var current *models.RoundRecord
	if a.state.CurrentRound != nil {
		rec := *a.state.CurrentRound
		current = &rec
	}

	return models.StateSnapshot{
		Dealers:      a.dealersLocked(),
		CurrentRound: current,
		Rebuys:       rebuys,
		Eliminations: eliminations,
	}
}

// RecentActivity returns up to n of the latest rebuys and
// eliminations, newest first. Used by the bot's activity menu.
func (a *App) RecentActivity(n int) ([]models.RebuyRecord, []models.EliminationRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rebuys := tailReversed(a.state.Rebuys, n)
	eliminations := tailReversed(a.state.Eliminations, n)
	return rebuys, eliminations
}

func tailReversed[T any](items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}
