package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpis/railbird/internal/announce"
	"github.com/mkarpis/railbird/internal/events"
	"github.com/mkarpis/railbird/internal/models"
	"github.com/mkarpis/railbird/internal/notify"
	"github.com/mkarpis/railbird/internal/tournament"
)

type memorySnapshotter struct{}

func (memorySnapshotter) Load() (*models.TournamentState, error) { return nil, nil }
func (memorySnapshotter) Save(*models.TournamentState) error     { return nil }

type nopSender struct{}

func (nopSender) Send(context.Context, string, notify.Message) error { return nil }

type nopEventPublisher struct{}

func (nopEventPublisher) Publish(context.Context, events.EventType, any) error { return nil }

type fakeTransport struct {
	mu        sync.Mutex
	messages  []string
	keyboards [][][]Button
	answers   []string
	alerts    []bool
}

func (f *fakeTransport) SendMessage(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTransport) SendKeyboard(_ context.Context, _, _ string, rows [][]Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyboards = append(f.keyboards, rows)
	return nil
}

func (f *fakeTransport) AnswerCallback(_ context.Context, _, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeTransport) lastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeTransport) lastAnswer() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return "", false
	}
	return f.answers[len(f.answers)-1], f.alerts[len(f.alerts)-1]
}

func newTestSession(t *testing.T) (*Session, *tournament.App, *fakeTransport) {
	t.Helper()
	store := tournament.NewApp(memorySnapshotter{}, clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)))
	announcer := announce.NewAnnouncer(store, notify.NewDispatcher(nopSender{}), nopEventPublisher{})
	transport := &fakeTransport{}
	session := NewSession(store, announcer, transport, []string{"1", "2", "3", "4"})
	return session, store, transport
}

func TestHandleStartSendsTableKeyboard(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "other", Table: "2"})
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "3"})

	require.NoError(t, session.HandleStart(context.Background(), Actor{ID: "me", ChatRef: "chat-me"}))

	require.Len(t, transport.keyboards, 1)
	rows := transport.keyboards[0]
	require.Len(t, rows, 2) // four tables, three columns

	var labels []string
	for _, row := range rows {
		for _, btn := range row {
			labels = append(labels, btn.Label)
		}
	}
	assert.Equal(t, []string{"Table 1", "Table 2 (taken)", "Table 3 (you)", "Table 4"}, labels)
	assert.Equal(t, tableCallbackPrefix+"1", rows[0][0].Data)
}

func TestTableSelectionAssigns(t *testing.T) {
	session, store, transport := newTestSession(t)

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "chat-me", DisplayName: "Ana"}, "cb1", tableCallbackPrefix+"2")
	require.NoError(t, err)

	dealer := store.Dealer("me")
	require.NotNil(t, dealer)
	assert.Equal(t, "2", dealer.Table)
	assert.Equal(t, "chat-me", dealer.EndpointRef)

	answer, alert := transport.lastAnswer()
	assert.Equal(t, "Assigned to table 2", answer)
	assert.False(t, alert)
	assert.Contains(t, transport.lastMessage(), "assigned to table 2")
}

func TestTableSelectionRejectsTakenTable(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "other", Table: "2"})

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "chat-me"}, "cb1", tableCallbackPrefix+"2")
	require.NoError(t, err)

	assert.Nil(t, store.Dealer("me"))
	answer, alert := transport.lastAnswer()
	assert.Equal(t, "That table is already taken.", answer)
	assert.True(t, alert)
}

func TestTableSelectionAllowsReselectingOwnTable(t *testing.T) {
	session, store, _ := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "2"})

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "chat-me"}, "cb1", tableCallbackPrefix+"2")
	require.NoError(t, err)

	require.NotNil(t, store.Dealer("me"))
}

func TestTableSelectionUnknownTable(t *testing.T) {
	session, store, transport := newTestSession(t)

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "chat-me"}, "cb1", tableCallbackPrefix+"99")
	require.NoError(t, err)

	assert.Nil(t, store.Dealer("me"))
	answer, alert := transport.lastAnswer()
	assert.Equal(t, "Unknown table selection.", answer)
	assert.True(t, alert)
}

func TestUnassignCommand(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "1"})

	require.NoError(t, session.HandleCommand(context.Background(), Actor{ID: "me", ChatRef: "c"}, "unassign"))
	assert.Nil(t, store.Dealer("me"))
	assert.Contains(t, transport.lastMessage(), "unassigned")

	require.NoError(t, session.HandleCommand(context.Background(), Actor{ID: "me", ChatRef: "c"}, "unassign"))
	assert.Contains(t, transport.lastMessage(), "No assignment")
}

func TestRebuyFlowUsesDealersOwnTable(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "3"})

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "c"}, "cb1", menuCallbackPrefix+menuRebuy)
	require.NoError(t, err)
	assert.Contains(t, transport.lastMessage(), "rebuy details")

	err = session.HandleText(context.Background(), Actor{ID: "me", ChatRef: "c"}, "Vince\n500")
	require.NoError(t, err)

	state := store.GetState()
	require.Len(t, state.Rebuys, 1)
	assert.Equal(t, "3", state.Rebuys[0].Table)
	assert.Equal(t, "Vince", state.Rebuys[0].Player)
	assert.Equal(t, "500", state.Rebuys[0].Amount)
	assert.Contains(t, transport.lastMessage(), "Rebuy recorded")

	// pending action is consumed
	err = session.HandleText(context.Background(), Actor{ID: "me", ChatRef: "c"}, "again")
	require.NoError(t, err)
	assert.Contains(t, transport.lastMessage(), "/menu")
	assert.Len(t, store.GetState().Rebuys, 1)
}

func TestEliminationFlow(t *testing.T) {
	session, store, _ := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "2"})

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "c"}, "cb1", menuCallbackPrefix+menuElimination)
	require.NoError(t, err)

	err = session.HandleText(context.Background(), Actor{ID: "me", ChatRef: "c"}, "Doyle\n9")
	require.NoError(t, err)

	state := store.GetState()
	require.Len(t, state.Eliminations, 1)
	assert.Equal(t, "Doyle", state.Eliminations[0].Player)
	assert.Equal(t, "9", state.Eliminations[0].Position)
	assert.Equal(t, "2", state.Eliminations[0].Table)
}

func TestTextWithoutPendingAction(t *testing.T) {
	session, _, transport := newTestSession(t)

	require.NoError(t, session.HandleText(context.Background(), Actor{ID: "me", ChatRef: "c"}, "hello"))
	assert.Contains(t, transport.lastMessage(), "/menu")
}

func TestTextFromUnassignedDealer(t *testing.T) {
	session, store, transport := newTestSession(t)

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "c"}, "cb1", menuCallbackPrefix+menuRebuy)
	require.NoError(t, err)

	err = session.HandleText(context.Background(), Actor{ID: "me", ChatRef: "c"}, "Vince\n500")
	require.NoError(t, err)
	assert.Contains(t, transport.lastMessage(), "not currently assigned")
	assert.Empty(t, store.GetState().Rebuys)
}

func TestStatusCommand(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.AssignDealer(tournament.AssignDealerRequest{ID: "me", Table: "1"})

	require.NoError(t, session.HandleCommand(context.Background(), Actor{ID: "me", ChatRef: "c"}, "status"))
	assert.Contains(t, transport.lastMessage(), "not been announced")

	store.RecordRoundChange(models.RoundRecord{Label: "3", Blinds: "75/150"})
	require.NoError(t, session.HandleCommand(context.Background(), Actor{ID: "me", ChatRef: "c"}, "status"))
	assert.Contains(t, transport.lastMessage(), "Current round: 3")
	assert.Contains(t, transport.lastMessage(), "75/150")
}

func TestRecentActivityMenu(t *testing.T) {
	session, store, transport := newTestSession(t)
	store.RecordRebuy(models.RebuyRecord{Table: "1", Player: "Vince", Amount: "500"})
	store.RecordElimination(models.EliminationRecord{Player: "Doyle", Position: "9"})

	err := session.HandleCallback(context.Background(),
		Actor{ID: "me", ChatRef: "c"}, "cb1", menuCallbackPrefix+menuActivity)
	require.NoError(t, err)

	msg := transport.lastMessage()
	assert.True(t, strings.Contains(msg, "Recent rebuys"))
	assert.True(t, strings.Contains(msg, "Vince"))
	assert.True(t, strings.Contains(msg, "Doyle"))
}

func TestUnknownCommand(t *testing.T) {
	session, _, transport := newTestSession(t)

	require.NoError(t, session.HandleCommand(context.Background(), Actor{ID: "me", ChatRef: "c"}, "bogus"))
	assert.Contains(t, transport.lastMessage(), "Unknown command")
}
