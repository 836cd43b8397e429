package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpis/railbird/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := NewFileStore(path)

	state := models.NewTournamentState()
	state.Dealers["d1"] = models.Dealer{
		ID:          "d1",
		EndpointRef: "dealers.d1",
		Table:       "3",
		DisplayName: "Ana",
		CreatedAt:   time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
	}
	state.CurrentRound = &models.RoundRecord{
		ID:           "r1",
		Label:        "3",
		LevelOrdinal: 3,
		Blinds:       "75/150",
		Tables:       []string{},
	}
	state.Rebuys = append(state.Rebuys, models.RebuyRecord{Table: "3", Player: "p1"})
	state.Eliminations = append(state.Eliminations, models.EliminationRecord{Player: "p2", Position: "9"})

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, state.Dealers, loaded.Dealers)
	assert.Equal(t, state.CurrentRound, loaded.CurrentRound)
	assert.Equal(t, state.Rebuys, loaded.Rebuys)
	assert.Equal(t, state.Eliminations, loaded.Eliminations)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	first := models.NewTournamentState()
	first.Dealers["d1"] = models.Dealer{ID: "d1", Table: "1"}
	require.NoError(t, store.Save(first))

	second := models.NewTournamentState()
	second.Dealers["d2"] = models.Dealer{ID: "d2", Table: "2"}
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.NotContains(t, loaded.Dealers, "d1")
	assert.Contains(t, loaded.Dealers, "d2")
}
