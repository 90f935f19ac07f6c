package telemetry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pthm-cable/heredity/genetics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the population state needed to resume a run.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Tick    int32  `json:"tick"`
	NextID  uint32 `json:"next_id"`

	Organisms []OrganismState `json:"organisms"`
}

// OrganismState holds one organism's complete state.
type OrganismState struct {
	ID            uint32  `json:"id"`
	Lineage       uint8   `json:"lineage"`
	Generation    uint32  `json:"generation"`
	AgeTicks      int32   `json:"age_ticks"`
	LifespanTicks int32   `json:"lifespan_ticks"`
	BreedCooldown int32   `json:"breed_cooldown"`
	Health        float64 `json:"health"`
	Energy        float64 `json:"energy"`

	Genome *genetics.Genome `json:"genome"`
}

// WriteSnapshot saves a snapshot as indented JSON.
func WriteSnapshot(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot, rejecting other format versions and
// organisms without a genome.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snap.Version, SnapshotVersion)
	}
	for _, o := range snap.Organisms {
		if o.Genome == nil {
			return nil, fmt.Errorf("snapshot organism %d has no genome", o.ID)
		}
	}
	return &snap, nil
}
