package telemetry

import (
	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/traits"
)

// TrackedTraits are the traits whose distributions go into WindowStats.
var TrackedTraits = []string{
	traits.MaxSize,
	traits.FurDensity,
	traits.MetabolismRate,
	traits.PlantDigestion,
	traits.MeatDigestion,
	traits.WaterStorage,
	traits.Thermoregulation,
}

// Sample is the population state at a window boundary, gathered by the
// caller.
type Sample struct {
	Env            phenotype.EnvironmentState
	Energies       []float64 // Energy ratios
	Healths        []float64
	Diets          []traits.DietType
	Traits         map[string][]float64 // TrackedTraits values
	Stressed       int
	Starving       int
	MaxGeneration  uint32
	MeanSimilarity float64
	CacheHits      uint64
	CacheMisses    uint64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	sexualBirths int
	buddedBirths int
	deaths       map[components.DeathCause]int
}

// NewCollector creates a new stats collector with windows of the given
// number of ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		deaths:              make(map[components.DeathCause]int),
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(sexual bool) {
	if sexual {
		c.sexualBirths++
	} else {
		c.buddedBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(cause components.DeathCause) {
	c.deaths[cause]++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	energyMean, p10, p50, p90 := ComputeEnergyStats(s.Energies)
	healthMean, _ := ComputeTraitStats(s.Healths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Temperature: s.Env.Temperature,
		Moisture:    s.Env.Moisture,

		Population:    len(s.Energies),
		MaxGeneration: s.MaxGeneration,

		SexualBirths:     c.sexualBirths,
		BuddedBirths:     c.buddedBirths,
		DeathsOldAge:     c.deaths[components.CauseOldAge],
		DeathsStarvation: c.deaths[components.CauseStarvation],
		DeathsExposure:   c.deaths[components.CauseExposure],

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,
		HealthMean: healthMean,
		Stressed:   s.Stressed,
		Starving:   s.Starving,

		MeanSimilarity: s.MeanSimilarity,
	}

	for _, d := range s.Diets {
		switch d {
		case traits.Omnivore:
			stats.Omnivores++
		case traits.Herbivore:
			stats.Herbivores++
		case traits.Frugivore:
			stats.Frugivores++
		case traits.Carnivore:
			stats.Carnivores++
		case traits.Necrovore:
			stats.Necrovores++
		}
	}

	stats.MaxSizeMean, stats.MaxSizeStd = ComputeTraitStats(s.Traits[traits.MaxSize])
	stats.FurDensityMean, stats.FurDensityStd = ComputeTraitStats(s.Traits[traits.FurDensity])
	stats.MetabolismMean, stats.MetabolismStd = ComputeTraitStats(s.Traits[traits.MetabolismRate])
	stats.PlantDigestionMean, stats.PlantDigestionStd = ComputeTraitStats(s.Traits[traits.PlantDigestion])
	stats.MeatDigestionMean, stats.MeatDigestionStd = ComputeTraitStats(s.Traits[traits.MeatDigestion])
	stats.WaterStorageMean, stats.WaterStorageStd = ComputeTraitStats(s.Traits[traits.WaterStorage])
	stats.ThermoregulationMean, stats.ThermoregulationStd = ComputeTraitStats(s.Traits[traits.Thermoregulation])

	if lookups := s.CacheHits + s.CacheMisses; lookups > 0 {
		stats.CacheHitRate = float64(s.CacheHits) / float64(lookups)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.sexualBirths = 0
	c.buddedBirths = 0
	c.deaths = make(map[components.DeathCause]int)

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
