package stress

import (
	"math"

	"github.com/pthm-cable/heredity/traits"
)

// Moisture penalties. Deficits are in the same 0-1 units as moisture.
const (
	waterStorageRelief = 0.5

	moistureMildBound     = 0.1
	moistureModerateBound = 0.3
	moistureSevereBound   = 0.5

	moistureDrainPerDeficit  = 0.5
	moistureGrace            = 0.1
	moistureDamagePerDeficit = 0.0005
)

// MoistureAdaptations are the traits governing water balance.
type MoistureAdaptations struct {
	WaterRequirement float64
	WaterStorage     float64
}

// MoistureStress is the outcome of a moisture check.
type MoistureStress struct {
	EffectiveNeed         float64
	Deficit               float64
	Severity              Severity
	EnergyDrainMultiplier float64
	HealthDamageRate      float64
}

// ExtractMoistureAdaptations reads water traits raw.
func ExtractMoistureAdaptations(p RawTraitReader) MoistureAdaptations {
	return MoistureAdaptations{
		WaterRequirement: p.ComputeTraitRaw(traits.WaterRequirement),
		WaterStorage:     p.ComputeTraitRaw(traits.WaterStorage),
	}
}

// CalculateMoistureStress scores available moisture against need. Water
// storage halves need at full expression.
func CalculateMoistureStress(moisture float64, a MoistureAdaptations) MoistureStress {
	need := a.WaterRequirement * (1 - a.WaterStorage*waterStorageRelief)
	deficit := math.Max(0, need-moisture)

	return MoistureStress{
		EffectiveNeed:         need,
		Deficit:               deficit,
		Severity:              bucket(deficit, moistureMildBound, moistureModerateBound, moistureSevereBound),
		EnergyDrainMultiplier: 1 + moistureDrainPerDeficit*deficit,
		HealthDamageRate:      math.Max(0, deficit-moistureGrace) * moistureDamagePerDeficit,
	}
}
