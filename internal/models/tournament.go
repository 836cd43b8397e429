package models

// TournamentState is the persisted unit: dealers keyed by id, the
// current round record, and the append-only rebuy/elimination logs.
// It is rewritten in full as a single JSON document on every mutation.
type TournamentState struct {
	Dealers      map[string]Dealer   `json:"dealers"`
	CurrentRound *RoundRecord        `json:"currentRound"`
	Rebuys       []RebuyRecord       `json:"rebuys"`
	Eliminations []EliminationRecord `json:"eliminations"`
}

// NewTournamentState returns an empty state with initialized containers.
func NewTournamentState() *TournamentState {
	return &TournamentState{
		Dealers:      make(map[string]Dealer),
		Rebuys:       []RebuyRecord{},
		Eliminations: []EliminationRecord{},
	}
}

// StateSnapshot is the caller-facing view of TournamentState with
// dealers flattened to a slice, safe for serialization to API clients.
type StateSnapshot struct {
	Dealers      []Dealer            `json:"dealers"`
	CurrentRound *RoundRecord        `json:"currentRound"`
	Rebuys       []RebuyRecord       `json:"rebuys"`
	Eliminations []EliminationRecord `json:"eliminations"`
}
