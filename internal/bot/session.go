// Package bot implements the dealer-facing chat surface: table
// selection, a small action menu, and best-effort free-text entry of
// rebuys and eliminations. All conversational state lives in a Session
// scoped to one tournament, not in package globals.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/announce"
	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/tournament"
)

const activityLimit = 5

// Session routes chat interactions for one tournament. It is created
// on tournament start and discarded on restart, taking its pending
// conversational state with it.
type Session struct {
	store     *tournament.App
	announcer *announce.Announcer
	transport ChatTransport
	tables    []string

	mu      sync.Mutex
	pending map[string]pendingAction
}

// NewSession creates a chat session over the configured table choices.
func NewSession(store *tournament.App, announcer *announce.Announcer, transport ChatTransport, tables []string) *Session {
	return &Session{
		store:     store,
		announcer: announcer,
		transport: transport,
		tables:    tables,
		pending:   make(map[string]pendingAction),
	}
}

// HandleStart replies with the table keyboard.
func (s *Session) HandleStart(ctx context.Context, from Actor) error {
	return s.transport.SendKeyboard(ctx, from.ChatRef, "Choose your table", s.tableKeyboard(from.ID))
}

// tableKeyboard builds the table picker, marking each occupied table
// with (you) or (taken).
func (s *Session) tableKeyboard(currentID string) [][]Button {
	occupied := make(map[string]string)
	for _, d := range s.store.Dealers() {
		if d.Table != "" {
			occupied[strings.TrimSpace(d.Table)] = d.ID
		}
	}

	const columns = 3
	var rows [][]Button
	var row []Button
	for _, table := range s.tables {
		label := fmt.Sprintf("Table %s", table)
		if owner, ok := occupied[table]; ok {
			if owner == currentID {
				label += " (you)"
			} else {
				label += " (taken)"
			}
		}
		row = append(row, Button{Label: label, Data: tableCallbackPrefix + table})
		if len(row) == columns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// HandleCallback routes an inline keyboard press.
func (s *Session) HandleCallback(ctx context.Context, from Actor, callbackID, data string) error {
	switch {
	case strings.HasPrefix(data, tableCallbackPrefix):
		return s.handleTableSelection(ctx, from, callbackID, strings.TrimPrefix(data, tableCallbackPrefix))
	case strings.HasPrefix(data, menuCallbackPrefix):
		return s.handleMenuSelection(ctx, from, callbackID, strings.TrimPrefix(data, menuCallbackPrefix))
	default:
		return s.transport.AnswerCallback(ctx, callbackID, "", false)
	}
}

// handleTableSelection enforces mutually exclusive table assignment at
// the command layer: a table already held by someone else is rejected
// before the store is touched. The store itself does not check.
func (s *Session) handleTableSelection(ctx context.Context, from Actor, callbackID, table string) error {
	table = strings.TrimSpace(table)
	if table == "" || !s.knownTable(table) {
		return s.transport.AnswerCallback(ctx, callbackID, "Unknown table selection.", true)
	}
	if from.ID == "" {
		return s.transport.AnswerCallback(ctx, callbackID, "Unable to determine your account.", true)
	}

	if existing := s.store.FindDealerByTable(table); existing != nil && existing.ID != from.ID {
		return s.transport.AnswerCallback(ctx, callbackID, "That table is already taken.", true)
	}

	dealer := s.store.AssignDealer(tournament.AssignDealerRequest{
		ID:          from.ID,
		EndpointRef: from.ChatRef,
		Table:       table,
		DisplayName: from.DisplayName,
	})

	if err := s.transport.AnswerCallback(ctx, callbackID, fmt.Sprintf("Assigned to table %s", table), false); err != nil {
		log.Warn().Err(err).Str("dealer_id", from.ID).Msg("failed to answer table callback")
	}
	return s.transport.SendMessage(ctx, from.ChatRef, fmt.Sprintf("You are now assigned to table %s.", dealer.Table))
}

func (s *Session) handleMenuSelection(ctx context.Context, from Actor, callbackID, action string) error {
	if err := s.transport.AnswerCallback(ctx, callbackID, "", false); err != nil {
		log.Warn().Err(err).Str("dealer_id", from.ID).Msg("failed to answer menu callback")
	}

	switch action {
	case menuRebuy:
		s.setPending(from.ID, pendingRebuy)
		return s.transport.SendMessage(ctx, from.ChatRef,
			"Send the rebuy details: player on the first line, amount on the second, notes after.")
	case menuElimination:
		s.setPending(from.ID, pendingElimination)
		return s.transport.SendMessage(ctx, from.ChatRef,
			"Send the elimination details: player on the first line, position on the second, notes after.")
	case menuActivity:
		return s.sendRecentActivity(ctx, from)
	default:
		return s.transport.SendMessage(ctx, from.ChatRef, "Unknown menu action.")
	}
}

// HandleCommand routes a slash command without its leading slash.
func (s *Session) HandleCommand(ctx context.Context, from Actor, command string) error {
	switch command {
	case "start":
		return s.HandleStart(ctx, from)
	case "assign":
		return s.transport.SendMessage(ctx, from.ChatRef, "Please use /start to choose your table from the menu.")
	case "unassign":
		if removed := s.store.UnassignDealer(from.ID); removed != nil {
			return s.transport.SendMessage(ctx, from.ChatRef, "You have been unassigned from your table.")
		}
		return s.transport.SendMessage(ctx, from.ChatRef, "No assignment was found for you.")
	case "table":
		if dealer := s.store.Dealer(from.ID); dealer != nil {
			return s.transport.SendMessage(ctx, from.ChatRef, fmt.Sprintf("You are assigned to table %s.", dealer.Table))
		}
		return s.transport.SendMessage(ctx, from.ChatRef, "You are not currently assigned to a table.")
	case "status":
		return s.sendStatus(ctx, from)
	case "menu":
		return s.transport.SendKeyboard(ctx, from.ChatRef, "What would you like to do?", [][]Button{{
			{Label: "Rebuy", Data: menuCallbackPrefix + menuRebuy},
			{Label: "Elimination", Data: menuCallbackPrefix + menuElimination},
			{Label: "Recent activity", Data: menuCallbackPrefix + menuActivity},
		}})
	default:
		return s.transport.SendMessage(ctx, from.ChatRef, "Unknown command. Try /start, /menu, /table, /status, or /unassign.")
	}
}

func (s *Session) sendStatus(ctx context.Context, from Actor) error {
	if s.store.Dealer(from.ID) == nil {
		return s.transport.SendMessage(ctx, from.ChatRef, "You are not currently assigned to a table.")
	}
	state := s.store.GetState()
	if state.CurrentRound == nil {
		return s.transport.SendMessage(ctx, from.ChatRef, "The tournament round has not been announced yet.")
	}
	blinds := state.CurrentRound.Blinds
	if blinds == "" {
		blinds = "n/a"
	}
	return s.transport.SendMessage(ctx, from.ChatRef,
		fmt.Sprintf("Current round: %s\nBlinds: %s", state.CurrentRound.Label, blinds))
}

func (s *Session) sendRecentActivity(ctx context.Context, from Actor) error {
	rebuys, eliminations := s.store.RecentActivity(activityLimit)
	if len(rebuys) == 0 && len(eliminations) == 0 {
		return s.transport.SendMessage(ctx, from.ChatRef, "No activity recorded yet.")
	}

	var b strings.Builder
	if len(rebuys) > 0 {
		b.WriteString("Recent rebuys:\n")
		for _, r := range rebuys {
			fmt.Fprintf(&b, "- table %s", r.Table)
			if r.Player != "" {
				fmt.Fprintf(&b, ", %s", r.Player)
			}
			if r.Amount != "" {
				fmt.Fprintf(&b, " (%s)", r.Amount)
			}
			b.WriteString("\n")
		}
	}
	if len(eliminations) > 0 {
		b.WriteString("Recent eliminations:\n")
		for _, e := range eliminations {
			fmt.Fprintf(&b, "- %s", e.Player)
			if e.Position != "" {
				fmt.Fprintf(&b, " (position %s)", e.Position)
			}
			b.WriteString("\n")
		}
	}
	return s.transport.SendMessage(ctx, from.ChatRef, strings.TrimRight(b.String(), "\n"))
}

// HandleText consumes a free-text follow-up to a pending menu action.
func (s *Session) HandleText(ctx context.Context, from Actor, text string) error {
	action, ok := s.takePending(from.ID)
	if !ok {
		return s.transport.SendMessage(ctx, from.ChatRef, "Use /menu to pick an action first.")
	}

	dealer := s.store.Dealer(from.ID)
	if dealer == nil {
		return s.transport.SendMessage(ctx, from.ChatRef, "You are not currently assigned to a table.")
	}

	switch action {
	case pendingRebuy:
		draft := ParseRebuyFreeText(text)
		result, err := s.announcer.SubmitRebuy(ctx, announce.RebuyPayload{
			Table:  dealer.Table,
			Player: draft.Player,
			Amount: draft.Amount,
			Notes:  draft.Notes,
		})
		if err != nil {
			return s.transport.SendMessage(ctx, from.ChatRef, s.describeError(err))
		}
		return s.transport.SendMessage(ctx, from.ChatRef,
			fmt.Sprintf("Rebuy recorded for table %s.", result.Rebuy.Table))
	case pendingElimination:
		draft := ParseEliminationFreeText(text)
		result, err := s.announcer.SubmitElimination(ctx, announce.EliminationPayload{
			Player:   draft.Player,
			Table:    dealer.Table,
			Position: draft.Position,
			Notes:    draft.Notes,
		})
		if err != nil {
			return s.transport.SendMessage(ctx, from.ChatRef, s.describeError(err))
		}
		return s.transport.SendMessage(ctx, from.ChatRef,
			fmt.Sprintf("Elimination recorded for %s.", result.Elimination.Player))
	default:
		return nil
	}
}

func (s *Session) describeError(err error) string {
	if apperrors.IsValidation(err) || apperrors.IsNotFound(err) {
		return err.Error()
	}
	log.Error().Err(err).Msg("bot action failed")
	return "Something went wrong, please try again."
}

func (s *Session) knownTable(table string) bool {
	for _, t := range s.tables {
		if t == table {
			return true
		}
	}
	return false
}

func (s *Session) setPending(dealerID string, action pendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[dealerID] = action
}

func (s *Session) takePending(dealerID string) (pendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.pending[dealerID]
	delete(s.pending, dealerID)
	return action, ok
}
