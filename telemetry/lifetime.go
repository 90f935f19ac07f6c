package telemetry

import "github.com/pthm-cable/heredity/traits"

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	Lineage    uint8
	Generation uint32
	BirthDiet  traits.DietType

	Children   int
	PeakEnergy float64
}

// LifetimeTracker manages per-organism lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, lineage uint8, generation uint32, diet traits.DietType) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Lineage:    lineage,
		Generation: generation,
		BirthDiet:  diet,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an organism's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordChild increments the child count of a parent. Unknown ids are
// ignored; budding passes 0 as the second parent.
func (lt *LifetimeTracker) RecordChild(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Children++
	}
}

// RecordEnergy updates peak energy.
func (lt *LifetimeTracker) RecordEnergy(id uint32, energy float64) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
