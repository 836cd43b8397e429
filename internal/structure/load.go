package structure

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkarpis/railbird/internal/models"
)

// LoadFile reads a JSON array of level entries from path and
// normalizes it. A missing file falls back to the built-in structure.
func LoadFile(path string) ([]models.Level, error) {
	if path == "" {
		return DefaultStructure(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultStructure(), nil
		}
		return nil, fmt.Errorf("failed to read structure file: %w", err)
	}

	var raw []RawLevelEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse structure file: %w", err)
	}
	return Normalize(raw)
}
