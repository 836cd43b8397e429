package tournament

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpis/railbird/internal/models"
)

type fakeSnapshotter struct {
	LoadFunc func() (*models.TournamentState, error)
	SaveFunc func(state *models.TournamentState) error

	saves int
}

func (f *fakeSnapshotter) Load() (*models.TournamentState, error) {
	if f.LoadFunc != nil {
		return f.LoadFunc()
	}
	return nil, nil
}

func (f *fakeSnapshotter) Save(state *models.TournamentState) error {
	f.saves++
	if f.SaveFunc != nil {
		return f.SaveFunc(state)
	}
	return nil
}

func newTestApp(t *testing.T, snap *fakeSnapshotter) *App {
	t.Helper()
	if snap == nil {
		snap = &fakeSnapshotter{}
	}
	return NewApp(snap, clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)))
}

func TestAssignDealerUpsert(t *testing.T) {
	snap := &fakeSnapshotter{}
	app := newTestApp(t, snap)

	d := app.AssignDealer(AssignDealerRequest{ID: "d1", Table: " 3 ", DisplayName: "Ana"})
	assert.Equal(t, "3", d.Table)
	assert.Equal(t, "d1", d.EndpointRef)
	assert.Equal(t, 1, snap.saves)

	created := d.CreatedAt
	d = app.AssignDealer(AssignDealerRequest{ID: "d1", Table: "5", EndpointRef: "dealers.d1"})
	assert.Equal(t, "5", d.Table)
	assert.Equal(t, "dealers.d1", d.EndpointRef)
	assert.Equal(t, created, d.CreatedAt)
	assert.Equal(t, 2, snap.saves)

	require.Len(t, app.Dealers(), 1)
}

func TestUnassignDealer(t *testing.T) {
	app := newTestApp(t, nil)
	app.AssignDealer(AssignDealerRequest{ID: "d1", Table: "1"})

	removed := app.UnassignDealer("d1")
	require.NotNil(t, removed)
	assert.Equal(t, "d1", removed.ID)
	assert.Nil(t, app.Dealer("d1"))

	assert.Nil(t, app.UnassignDealer("d1"))
}

func TestDealersSortedNumericallyByTable(t *testing.T) {
	app := newTestApp(t, nil)
	app.AssignDealer(AssignDealerRequest{ID: "a", Table: "10"})
	app.AssignDealer(AssignDealerRequest{ID: "b", Table: "2"})
	app.AssignDealer(AssignDealerRequest{ID: "c", Table: "2"})

	dealers := app.Dealers()
	require.Len(t, dealers, 3)
	assert.Equal(t, "b", dealers[0].ID)
	assert.Equal(t, "c", dealers[1].ID)
	assert.Equal(t, "a", dealers[2].ID)
}

func TestFindDealerByTable(t *testing.T) {
	app := newTestApp(t, nil)
	app.AssignDealer(AssignDealerRequest{ID: "d1", Table: "Final"})

	found := app.FindDealerByTable("  final ")
	require.NotNil(t, found)
	assert.Equal(t, "d1", found.ID)

	assert.Nil(t, app.FindDealerByTable("7"))
	assert.Nil(t, app.FindDealerByTable("  "))
}

func TestRecordRoundChangeAssignsCorrelationID(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.RecordRoundChange(models.RoundRecord{Label: "3", LevelOrdinal: 3})
	assert.NotEmpty(t, rec.ID)
	assert.NotNil(t, rec.Tables)
	assert.False(t, rec.UpdatedAt.IsZero())

	rec2 := app.RecordRoundChange(models.RoundRecord{ID: "fixed-id", Label: "4"})
	assert.Equal(t, "fixed-id", rec2.ID)

	state := app.GetState()
	require.NotNil(t, state.CurrentRound)
	assert.Equal(t, "fixed-id", state.CurrentRound.ID)
}

func TestRoundByCorrelationIDCoversReplacedRounds(t *testing.T) {
	app := newTestApp(t, nil)

	first := app.RecordRoundChange(models.RoundRecord{Label: "1"})
	second := app.RecordRoundChange(models.RoundRecord{Label: "2"})

	found := app.RoundByCorrelationID(first.ID)
	require.NotNil(t, found)
	assert.Equal(t, "1", found.Label)

	found = app.RoundByCorrelationID(second.ID)
	require.NotNil(t, found)
	assert.Equal(t, "2", found.Label)

	assert.Nil(t, app.RoundByCorrelationID("unknown"))
}

func TestRecentRoundsRingIsBounded(t *testing.T) {
	app := newTestApp(t, nil)

	first := app.RecordRoundChange(models.RoundRecord{Label: "first"})
	for i := 0; i <= recentRoundsCap; i++ {
		app.RecordRoundChange(models.RoundRecord{Label: "later"})
	}

	assert.Nil(t, app.RoundByCorrelationID(first.ID))
	assert.Len(t, app.recentRounds, recentRoundsCap)
}

func TestPersistFailureDoesNotRollBack(t *testing.T) {
	snap := &fakeSnapshotter{
		SaveFunc: func(*models.TournamentState) error { return errors.New("disk full") },
	}
	app := newTestApp(t, snap)

	app.AssignDealer(AssignDealerRequest{ID: "d1", Table: "1"})

	require.NotNil(t, app.Dealer("d1"))
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	snap := &fakeSnapshotter{
		LoadFunc: func() (*models.TournamentState, error) { return nil, errors.New("corrupt") },
	}
	app := newTestApp(t, snap)

	state := app.GetState()
	assert.Empty(t, state.Dealers)
	assert.Nil(t, state.CurrentRound)
}

func TestRecentActivityNewestFirst(t *testing.T) {
	app := newTestApp(t, nil)
	app.RecordRebuy(models.RebuyRecord{Table: "1", Player: "p1"})
	app.RecordRebuy(models.RebuyRecord{Table: "2", Player: "p2"})
	app.RecordRebuy(models.RebuyRecord{Table: "3", Player: "p3"})
	app.RecordElimination(models.EliminationRecord{Player: "out1"})

	rebuys, elims := app.RecentActivity(2)
	require.Len(t, rebuys, 2)
	assert.Equal(t, "p3", rebuys[0].Player)
	assert.Equal(t, "p2", rebuys[1].Player)
	require.Len(t, elims, 1)
	assert.Equal(t, "out1", elims[0].Player)
}
