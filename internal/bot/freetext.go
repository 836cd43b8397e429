package bot

import "strings"

// RebuyDraft is the structured form a rebuy free-text message parses
// into.
type RebuyDraft struct {
	Player string
	Amount string
	Notes  string
}

// EliminationDraft is the structured form an elimination free-text
// message parses into.
type EliminationDraft struct {
	Player   string
	Position string
	Notes    string
}

// ParseRebuyFreeText parses a dealer's free-text rebuy entry: first
// line is the player, a numeric-looking second line is the amount, and
// anything after becomes notes. This is a best-effort heuristic, not a
// grammar; a note that happens to look numeric will be misread as an
// amount.
func ParseRebuyFreeText(text string) RebuyDraft {
	player, second, notes := splitEntry(text)
	draft := RebuyDraft{Player: player}
	if looksNumeric(second) {
		draft.Amount = second
	} else if second != "" {
		notes = joinNotes(second, notes)
	}
	draft.Notes = notes
	return draft
}

// ParseEliminationFreeText parses a dealer's free-text elimination
// entry with the same heuristic; the numeric second line is read as
// the finishing position.
func ParseEliminationFreeText(text string) EliminationDraft {
	player, second, notes := splitEntry(text)
	draft := EliminationDraft{Player: player}
	if looksNumeric(second) {
		draft.Position = second
	} else if second != "" {
		notes = joinNotes(second, notes)
	}
	draft.Notes = notes
	return draft
}

// splitEntry breaks free text into the first line, the second line,
// and the joined remainder. Blank lines are dropped.
func splitEntry(text string) (first, second, rest string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > 0 {
		first = lines[0]
	}
	if len(lines) > 1 {
		second = lines[1]
	}
	if len(lines) > 2 {
		rest = strings.Join(lines[2:], "\n")
	}
	return first, second, rest
}

// looksNumeric accepts digit strings with optional currency sign and
// separators ("500", "$1,500", "1500.00").
func looksNumeric(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ',' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

func joinNotes(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + "\n" + tail
}
