package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpis/railbird/internal/apperrors"
	"github.com/mkarpis/railbird/internal/models"
)

func intPtr(v int) *int { return &v }

func TestNormalizeRenumbersAroundBreaks(t *testing.T) {
	raw := []RawLevelEntry{
		{SB: intPtr(25), BB: intPtr(50), Time: intPtr(15)},
		{SB: intPtr(50), BB: intPtr(100), Time: intPtr(15)},
		{Break: true, Time: intPtr(10)},
		{SB: intPtr(75), BB: intPtr(150), Ante: intPtr(75), Time: intPtr(20)},
	}

	levels, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, levels, 4)

	assert.Equal(t, 1, levels[0].Ordinal)
	assert.Equal(t, 2, levels[1].Ordinal)

	assert.True(t, levels[2].IsBreak)
	assert.Equal(t, 0, levels[2].Ordinal)
	assert.Equal(t, 10, levels[2].DurationMinutes)

	assert.Equal(t, 3, levels[3].Ordinal)
	assert.Equal(t, 75, levels[3].SmallBlind)
	assert.Equal(t, 150, levels[3].BigBlind)
	assert.Equal(t, 75, levels[3].Ante)
}

func TestNormalizeFieldAliases(t *testing.T) {
	tests := []struct {
		name  string
		entry RawLevelEntry
		want  models.Level
	}{
		{
			name:  "short names",
			entry: RawLevelEntry{SB: intPtr(100), BB: intPtr(200), Time: intPtr(15)},
			want:  models.Level{Ordinal: 1, SmallBlind: 100, BigBlind: 200, DurationMinutes: 15},
		},
		{
			name:  "camel case",
			entry: RawLevelEntry{SmallBlind: intPtr(100), BigBlind: intPtr(200), DurationMinutes: intPtr(15)},
			want:  models.Level{Ordinal: 1, SmallBlind: 100, BigBlind: 200, DurationMinutes: 15},
		},
		{
			name:  "snake case",
			entry: RawLevelEntry{SmallBlindSC: intPtr(100), BigBlindSC: intPtr(200), DurationMinutesSC: intPtr(15)},
			want:  models.Level{Ordinal: 1, SmallBlind: 100, BigBlind: 200, DurationMinutes: 15},
		},
		{
			name: "short name wins over camel case",
			entry: RawLevelEntry{
				SB: intPtr(100), SmallBlind: intPtr(999),
				BB: intPtr(200), BigBlind: intPtr(999),
				Time: intPtr(15), DurationMinutes: intPtr(99),
			},
			want: models.Level{Ordinal: 1, SmallBlind: 100, BigBlind: 200, DurationMinutes: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, err := Normalize([]RawLevelEntry{tt.entry})
			require.NoError(t, err)
			require.Len(t, levels, 1)
			assert.Equal(t, tt.want, levels[0])
		})
	}
}

func TestNormalizeSuppliedRoundNumberIgnored(t *testing.T) {
	raw := []RawLevelEntry{
		{Round: intPtr(7), SB: intPtr(25), BB: intPtr(50), Time: intPtr(15)},
		{Round: intPtr(3), SB: intPtr(50), BB: intPtr(100), Time: intPtr(15)},
	}

	levels, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, levels[0].Ordinal)
	assert.Equal(t, 2, levels[1].Ordinal)
}

func TestNormalizeMissingDuration(t *testing.T) {
	_, err := Normalize([]RawLevelEntry{
		{SB: intPtr(25), BB: intPtr(50), Time: intPtr(15)},
		{SB: intPtr(50), BB: intPtr(100)},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "entry 1")
}

func TestNormalizeMissingBlindsDefaultToZero(t *testing.T) {
	levels, err := Normalize([]RawLevelEntry{{Time: intPtr(15)}})
	require.NoError(t, err)
	assert.Equal(t, 0, levels[0].SmallBlind)
	assert.Equal(t, 0, levels[0].BigBlind)
	assert.Equal(t, 0, levels[0].Ante)
}

func TestNormalizeEmptyInput(t *testing.T) {
	levels, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestDefaultStructure(t *testing.T) {
	levels := DefaultStructure()
	require.Len(t, levels, 19)

	var breaks, numbered int
	last := 0
	for _, lvl := range levels {
		if lvl.IsBreak {
			breaks++
			continue
		}
		numbered++
		assert.Equal(t, last+1, lvl.Ordinal)
		last = lvl.Ordinal
	}
	assert.Equal(t, 1, breaks)
	assert.Equal(t, 18, numbered)
}
