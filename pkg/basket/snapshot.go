package basket

import (
	"encoding/json"
	"fmt"

	"github.com/stefanpenner/tandem/pkg/analysis"
	"github.com/stefanpenner/tandem/pkg/store"
)

// DefaultKey is the storage key the basket snapshot lives under.
const DefaultKey = "goalBasket"

// SnapshotVersion is written into every snapshot. Loading a snapshot with a
// different version logs a warning and otherwise proceeds; there are no
// migrations.
const SnapshotVersion = "1.0"

// Snapshot is the persisted form of a basket.
type Snapshot struct {
	Goals     []store.Goal   `json:"goals"`
	LastSaved int64          `json:"lastSaved"` // unix milliseconds
	Version   string         `json:"version"`
	Stats     analysis.Stats `json:"stats"`
}

// EncodeSnapshot renders s as indented JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Goals == nil {
		s.Goals = []store.Goal{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a snapshot. Only the JSON shape is checked here.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s, nil
}
