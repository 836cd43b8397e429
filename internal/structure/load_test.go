package structure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structure.json")
	data := `[
		{"sb": 25, "bb": 50, "time": 20},
		{"break": true, "time": 10},
		{"smallBlind": 50, "bigBlind": 100, "ante": 100, "durationMinutes": 20}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	levels, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, 1, levels[0].Ordinal)
	assert.True(t, levels[1].IsBreak)
	assert.Equal(t, 2, levels[2].Ordinal)
	assert.Equal(t, 100, levels[2].Ante)
}

func TestLoadFileMissingFallsBackToDefault(t *testing.T) {
	levels, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStructure(), levels)
}

func TestLoadFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structure.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
