package phenotype

import (
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/traits"
)

// Age bands as fractions of lifespan.
const (
	juvenileEnd  = 0.1
	elderlyStart = 0.8

	juvenileFactor = 0.6
	elderlyFloor   = 0.8
)

// Cold thermogenesis: metabolism rises per degree below freezing, capped.
const (
	coldMetabolismPerDegree = 0.005
	coldMetabolismCap       = 0.25
)

// ApplyAgeModulation scales value by life stage: juveniles express 60 %,
// adults 100 %, and the elderly decay linearly from 100 % to 80 %.
func ApplyAgeModulation(value, ageNormalized float64) float64 {
	switch {
	case ageNormalized < juvenileEnd:
		return value * juvenileFactor
	case ageNormalized < elderlyStart:
		return value
	default:
		age := ageNormalized
		if age > 1 {
			age = 1
		}
		t := (age - elderlyStart) / (1 - elderlyStart)
		return value * (1 - t*(1-elderlyFloor))
	}
}

// ApplyEnvironmentModulation is the fixed per-trait climate hook. Only
// metabolism responds to cold; every other trait passes through.
func ApplyEnvironmentModulation(trait string, value float64, env EnvironmentState) float64 {
	switch trait {
	case traits.MetabolismRate:
		if env.Temperature >= 0 {
			return value
		}
		boost := -env.Temperature * coldMetabolismPerDegree
		if boost > coldMetabolismCap {
			boost = coldMetabolismCap
		}
		return value * (1 + boost)
	default:
		return value
	}
}

// ApplyOrganismStateModulation dispatches on the gene's modulation policy.
// Energy-gated and consumer-applied traits are returned unchanged: the
// consuming system owns their gating.
func ApplyOrganismStateModulation(value float64, policy genetics.ModulationPolicy, org OrganismState) float64 {
	switch policy {
	case genetics.PolicyNever:
		return value
	case genetics.PolicyHealthOnly:
		return value * clamp01(org.Health)
	case genetics.PolicyEnergyGated, genetics.PolicyConsumerApplied:
		return value
	default:
		return value
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
