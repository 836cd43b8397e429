package bot

import "context"

// ChatTransport is the conversational channel the dealer surface
// speaks through. The concrete chat service (Telegram, Slack, a test
// fake) lives behind this interface.
type ChatTransport interface {
	SendMessage(ctx context.Context, chatRef, text string) error
	SendKeyboard(ctx context.Context, chatRef, text string, rows [][]Button) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Actor identifies the dealer on the other end of a chat interaction.
type Actor struct {
	ID          string
	ChatRef     string
	DisplayName string
}

const (
	tableCallbackPrefix = "assign_table:"
	menuCallbackPrefix  = "menu:"

	menuRebuy       = "rebuy"
	menuElimination = "elimination"
	menuActivity    = "activity"
)

type pendingAction string

const (
	pendingRebuy       pendingAction = "rebuy"
	pendingElimination pendingAction = "elimination"
)
