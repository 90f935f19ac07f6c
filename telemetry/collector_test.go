package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/traits"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) || !c.ShouldFlush(10) {
		t.Error("window boundary should be at 10 ticks")
	}

	c.RecordBirth(true)
	c.RecordBirth(true)
	c.RecordBirth(false)
	c.RecordDeath(components.CauseOldAge)
	c.RecordDeath(components.CauseExposure)
	c.RecordDeath(components.CauseExposure)

	s := Sample{
		Env:      phenotype.EnvironmentState{Temperature: -3, Moisture: 0.2},
		Energies: []float64{0.2, 0.4, 0.6},
		Healths:  []float64{1, 0.5, 0.75},
		Diets:    []traits.DietType{traits.Herbivore, traits.Herbivore, traits.Carnivore},
		Traits: map[string][]float64{
			traits.FurDensity: {0.2, 0.4, 0.6},
		},
		Stressed:    2,
		CacheHits:   30,
		CacheMisses: 10,
	}
	stats := c.Flush(10, s)

	if stats.Population != 3 || stats.SexualBirths != 2 || stats.BuddedBirths != 1 {
		t.Errorf("counts: pop %d sexual %d budded %d", stats.Population, stats.SexualBirths, stats.BuddedBirths)
	}
	if stats.DeathsOldAge != 1 || stats.DeathsExposure != 2 || stats.DeathsStarvation != 0 {
		t.Errorf("deaths: %d/%d/%d", stats.DeathsOldAge, stats.DeathsExposure, stats.DeathsStarvation)
	}
	if stats.Herbivores != 2 || stats.Carnivores != 1 {
		t.Errorf("diets: herb %d carn %d", stats.Herbivores, stats.Carnivores)
	}
	if math.Abs(stats.FurDensityMean-0.4) > 1e-9 || math.Abs(stats.FurDensityStd-0.2) > 1e-9 {
		t.Errorf("fur density = %v ± %v, want 0.4 ± 0.2", stats.FurDensityMean, stats.FurDensityStd)
	}
	if math.Abs(stats.HealthMean-0.75) > 1e-9 {
		t.Errorf("health mean = %v, want 0.75", stats.HealthMean)
	}
	if stats.CacheHitRate != 0.75 {
		t.Errorf("cache hit rate = %v, want 0.75", stats.CacheHitRate)
	}
	if stats.Temperature != -3 {
		t.Errorf("temperature = %v", stats.Temperature)
	}

	// Counters reset
	next := c.Flush(20, Sample{})
	if next.WindowStartTick != 10 || next.SexualBirths != 0 || next.DeathsExposure != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("window restarted at 20")
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 100, 2, 3, traits.Frugivore)
	lt.RecordChild(7)
	lt.RecordChild(7)
	lt.RecordChild(0)
	lt.RecordEnergy(7, 40)
	lt.RecordEnergy(7, 30)

	s := lt.Get(7)
	if s == nil || s.Children != 2 || s.PeakEnergy != 40 || s.Lineage != 2 || s.Generation != 3 {
		t.Fatalf("stats = %+v", s)
	}
	if lt.Count() != 1 {
		t.Errorf("Count() = %d", lt.Count())
	}
	if got := lt.Remove(7); got != s || lt.Get(7) != nil {
		t.Error("Remove should return and forget the stats")
	}
}
