package structure

import "github.com/mkarpis/railbird/internal/models"

// DefaultStructure returns the stock 18-level schedule: 15-minute
// levels with a 10-minute break after level 7. Used when no structure
// file is configured.
func DefaultStructure() []models.Level {
	blinds := [][3]int{
		{0, 100, 100},
		{0, 100, 200},
		{0, 100, 300},
		{0, 200, 400},
		{0, 200, 500},
		{0, 300, 600},
		{0, 400, 800},
		{1000, 500, 1000},
		{1200, 600, 1200},
		{1600, 800, 1600},
		{2000, 1000, 2000},
		{2400, 1200, 2400},
		{3000, 1500, 3000},
		{4000, 2000, 4000},
		{5000, 2500, 5000},
		{6000, 3000, 6000},
		{8000, 4000, 8000},
		{10000, 5000, 10000},
	}

	levels := make([]models.Level, 0, len(blinds)+1)
	for i, b := range blinds {
		levels = append(levels, models.Level{
			Ordinal:         i + 1,
			Ante:            b[0],
			SmallBlind:      b[1],
			BigBlind:        b[2],
			DurationMinutes: 15,
		})
		if i == 6 {
			levels = append(levels, models.Level{IsBreak: true, DurationMinutes: 10})
		}
	}
	return levels
}
