// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/stress"
	"github.com/pthm-cable/heredity/traits"
)

// DeathCause records why an organism died.
type DeathCause uint8

const (
	CauseNone       DeathCause = iota
	CauseOldAge                // Reached its lifespan
	CauseStarvation            // Health lost while starving
	CauseExposure              // Health lost to thermal or moisture stress
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseExposure:
		return "exposure"
	default:
		return "unknown"
	}
}

// Vitals holds identity and life-cycle state.
type Vitals struct {
	ID         uint32
	Lineage    uint8  // Founder archetype index
	Generation uint32 // 0 for founders

	AgeTicks      int32
	LifespanTicks int32 // Fixed at birth from the lifespan gene
	BreedCooldown int32

	Health float64 // 0-1
	Alive  bool
	Cause  DeathCause

	// Damage taken this tick, split by source, for cause attribution
	StarvationDamage float64
	ExposureDamage   float64
}

// AgeNormalized returns age as a fraction of lifespan, capped at 1.
func (v *Vitals) AgeNormalized() float64 {
	if v.LifespanTicks <= 0 {
		return 1
	}
	a := float64(v.AgeTicks) / float64(v.LifespanTicks)
	if a > 1 {
		return 1
	}
	return a
}

// Energy holds the organism's energy store and genome-derived cost model.
type Energy struct {
	State     energy.State
	Breakdown energy.Breakdown
	Diet      traits.DietType

	// Last tick's flows
	Income float64
	Spent  float64
}

// Stress holds the most recent environmental stress evaluation.
type Stress struct {
	Thermal  stress.TemperatureStress
	Moisture stress.MoistureStress
}

// DrainMultiplier combines thermal and moisture energy drain.
func (s *Stress) DrainMultiplier() float64 {
	t := s.Thermal.EnergyDrainMultiplier
	if t == 0 {
		t = 1
	}
	m := s.Moisture.EnergyDrainMultiplier
	if m == 0 {
		m = 1
	}
	return t * m
}

// Stressed reports whether either stress check is outside comfort.
func (s *Stress) Stressed() bool {
	return s.Thermal.Severity != stress.Comfortable || s.Moisture.Severity != stress.Comfortable
}
