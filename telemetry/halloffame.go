package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/genetics"
)

// HallEntry is a proven organism's genome and fitness.
type HallEntry struct {
	ID            uint32           `json:"id"`
	Lineage       uint8            `json:"lineage"`
	Generation    uint32           `json:"generation"`
	Children      int              `json:"children"`
	SurvivalTicks int32            `json:"survival_ticks"`
	Fitness       float64          `json:"fitness"`
	Genome        *genetics.Genome `json:"genome"`
}

// HallOfFame stores proven genomes for reseeding when populations crash.
// Halls are indexed by lineage (one hall per founder archetype).
type HallOfFame struct {
	halls [][]HallEntry
	cfg   config.HallOfFameConfig
}

// NewHallOfFame creates a hall of fame with one hall per lineage.
func NewHallOfFame(cfg config.HallOfFameConfig, numLineages int) *HallOfFame {
	halls := make([][]HallEntry, numLineages)
	for i := range halls {
		halls[i] = make([]HallEntry, 0, cfg.Size)
	}
	return &HallOfFame{halls: halls, cfg: cfg}
}

// Consider evaluates a dead organism for entry. The genome is cloned on
// entry so the caller may discard its own copy. Returns true if added.
func (hof *HallOfFame) Consider(id uint32, stats *LifetimeStats, survivalTicks int32, genome *genetics.Genome) bool {
	if hof == nil || stats == nil || hof.cfg.Size <= 0 {
		return false
	}
	if stats.Children < hof.cfg.MinChildren && survivalTicks < int32(hof.cfg.MinSurvivalTicks) {
		return false
	}

	entry := HallEntry{
		ID:            id,
		Lineage:       stats.Lineage,
		Generation:    stats.Generation,
		Children:      stats.Children,
		SurvivalTicks: survivalTicks,
		Fitness:       float64(stats.Children)*hof.cfg.ChildrenWeight + float64(survivalTicks)*hof.cfg.SurvivalWeight,
	}

	hall := hof.getHall(stats.Lineage)
	if len(*hall) >= hof.cfg.Size && entry.Fitness <= (*hall)[len(*hall)-1].Fitness {
		return false
	}
	entry.Genome = genome.Clone()
	*hall = hof.insertEntry(*hall, entry)
	return true
}

// insertEntry inserts in descending fitness order and trims to size.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})
	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry
	if len(hall) > hof.cfg.Size {
		hall = hall[:hof.cfg.Size]
	}
	return hall
}

// Sample returns a copy of a random genome from a lineage's hall, biased
// towards the fitter half. Returns nil if the hall is empty.
func (hof *HallOfFame) Sample(lineage uint8, rng *rand.Rand) *genetics.Genome {
	if hof == nil {
		return nil
	}
	hall := hof.getHall(lineage)
	if len(*hall) == 0 {
		return nil
	}
	n := len(*hall)
	if rng.Float64() < 0.7 && n > 1 {
		n = (n + 1) / 2
	}
	return (*hall)[rng.Intn(n)].Genome.Clone()
}

// Size returns the number of entries for a lineage.
func (hof *HallOfFame) Size(lineage uint8) int {
	return len(*hof.getHall(lineage))
}

// TopFitness returns the best fitness for a lineage, or 0 if empty.
func (hof *HallOfFame) TopFitness(lineage uint8) float64 {
	hall := *hof.getHall(lineage)
	if len(hall) == 0 {
		return 0
	}
	return hall[0].Fitness
}

func (hof *HallOfFame) getHall(lineage uint8) *[]HallEntry {
	for int(lineage) >= len(hof.halls) {
		hof.halls = append(hof.halls, make([]HallEntry, 0, hof.cfg.Size))
	}
	return &hof.halls[lineage]
}

// MarshalJSON writes all halls as a flat entry list.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	var entries []HallEntry
	for _, hall := range hof.halls {
		entries = append(entries, hall...)
	}
	return json.MarshalIndent(struct {
		Entries []HallEntry `json:"entries"`
	}{entries}, "", "  ")
}

// LoadHallOfFameFromFile restores a hall of fame written by MarshalJSON.
func LoadHallOfFameFromFile(path string, cfg config.HallOfFameConfig, numLineages int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}
	var doc struct {
		Entries []HallEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing hall of fame: %w", err)
	}

	hof := NewHallOfFame(cfg, numLineages)
	for _, e := range doc.Entries {
		if e.Genome == nil {
			return nil, fmt.Errorf("hall of fame entry %d has no genome", e.ID)
		}
		hall := hof.getHall(e.Lineage)
		*hall = hof.insertEntry(*hall, e)
	}
	return hof, nil
}
