package announce

import (
	"fmt"
	"strings"

	"github.com/mkarpis/railbird/internal/models"
)

// buildRoundMessage renders the dealer-facing round update text.
func buildRoundMessage(round models.RoundRecord) string {
	parts := []string{strings.TrimSpace(fmt.Sprintf("\U0001F3B4 Round update: %s", round.Label))}
	if round.Blinds != "" {
		parts = append(parts, fmt.Sprintf("Blinds: %s", round.Blinds))
	}
	if round.Ante != 0 {
		parts = append(parts, fmt.Sprintf("Ante: %d", round.Ante))
	}
	if round.StartTime != "" {
		parts = append(parts, fmt.Sprintf("Start time: %s", round.StartTime))
	}
	if round.Notes != "" {
		parts = append(parts, round.Notes)
	}
	return strings.Join(parts, "\n")
}

func buildRebuyMessage(rebuy models.RebuyRecord) string {
	parts := []string{fmt.Sprintf("♻️ Rebuy requested at table %s", rebuy.Table)}
	if rebuy.Player != "" {
		parts = append(parts, fmt.Sprintf("Player: %s", rebuy.Player))
	}
	if rebuy.Amount != "" {
		parts = append(parts, fmt.Sprintf("Amount: %s", rebuy.Amount))
	}
	if rebuy.Notes != "" {
		parts = append(parts, rebuy.Notes)
	}
	return strings.Join(parts, "\n")
}

func buildEliminationMessage(elim models.EliminationRecord) string {
	player := elim.Player
	if player == "" {
		player = "Unknown"
	}
	parts := []string{fmt.Sprintf("❌ Player eliminated: %s", player)}
	if elim.Table != "" {
		parts = append(parts, fmt.Sprintf("Table: %s", elim.Table))
	}
	if elim.Position != "" {
		parts = append(parts, fmt.Sprintf("Position: %s", elim.Position))
	}
	if elim.Payout != "" {
		parts = append(parts, fmt.Sprintf("Payout: %s", elim.Payout))
	}
	if elim.Notes != "" {
		parts = append(parts, elim.Notes)
	}
	return strings.Join(parts, "\n")
}
