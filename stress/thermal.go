package stress

import (
	"math"

	"github.com/pthm-cable/heredity/traits"
)

// Effective tolerance is clamped to the survivable band of the world.
const (
	MinSurvivableTemp = -60.0
	MaxSurvivableTemp = 80.0
)

// Insulation weights per degree of tolerance shift.
const (
	coldFurWeight   = 12.0
	coldFatWeight   = 10.0
	coldMetabWeight = 6.0
	coldHideWeight  = 3.0

	heatFurWeight   = 10.0
	heatFatWeight   = 8.0
	heatMetabWeight = 5.0
	thermoregWeight = 8.0
	sizeBase        = 2.0
	sizeInsulationK = 0.4
)

// Temperature penalties.
const (
	thermalMildBound     = 5.0
	thermalModerateBound = 15.0
	thermalSevereBound   = 25.0

	thermalDrainPerDegree  = 0.05
	thermalGraceDegrees    = 5.0
	thermalDamagePerDegree = 0.00025
)

// ThermalAdaptations are the traits that shift temperature tolerance.
type ThermalAdaptations struct {
	FurDensity        float64
	FatLayerThickness float64
	MetabolismRate    float64
	HideThickness     float64
	MaxSize           float64
	Thermoregulation  float64
}

// TemperatureStress is the outcome of a thermal check.
type TemperatureStress struct {
	EffectiveLow          float64
	EffectiveHigh         float64
	DegreesOutside        float64
	Severity              Severity
	EnergyDrainMultiplier float64
	HealthDamageRate      float64
}

// ExtractThermalAdaptations reads thermal traits raw. Thermoregulation is
// optional and stays 0 when no gene provides it.
func ExtractThermalAdaptations(p RawTraitReader) ThermalAdaptations {
	a := ThermalAdaptations{
		FurDensity:        p.ComputeTraitRaw(traits.FurDensity),
		FatLayerThickness: p.ComputeTraitRaw(traits.FatLayerThickness),
		MetabolismRate:    p.ComputeTraitRaw(traits.MetabolismRate),
		HideThickness:     p.ComputeTraitRaw(traits.HideThickness),
		MaxSize:           p.ComputeTraitRaw(traits.MaxSize),
	}
	if p.HasTrait(traits.Thermoregulation) {
		a.Thermoregulation = p.ComputeTraitRaw(traits.Thermoregulation)
	}
	return a
}

// CalculateEffectiveTempRange widens or narrows a base tolerance band.
// Insulation extends the cold bound and shrinks the heat bound; small
// bodies gain more from either. Results are clamped to the survivable band.
func CalculateEffectiveTempRange(toleranceLow, toleranceHigh float64, a ThermalAdaptations) (low, high float64) {
	sizeFactor := sizeBase - a.MaxSize*sizeInsulationK

	coldBonus := (a.FurDensity*coldFurWeight +
		a.FatLayerThickness*coldFatWeight +
		a.MetabolismRate*coldMetabWeight +
		a.HideThickness*coldHideWeight) * sizeFactor

	heatBonus := -(a.FurDensity*heatFurWeight+
		a.FatLayerThickness*heatFatWeight+
		a.MetabolismRate*heatMetabWeight)*sizeFactor +
		a.Thermoregulation*thermoregWeight

	low = clamp(toleranceLow-coldBonus, MinSurvivableTemp, MaxSurvivableTemp)
	high = clamp(toleranceHigh+heatBonus, MinSurvivableTemp, MaxSurvivableTemp)
	return low, high
}

// CalculateTemperatureStress scores temperature against the adapted band.
func CalculateTemperatureStress(temperature, toleranceLow, toleranceHigh float64, a ThermalAdaptations) TemperatureStress {
	low, high := CalculateEffectiveTempRange(toleranceLow, toleranceHigh, a)

	var outside float64
	switch {
	case temperature < low:
		outside = low - temperature
	case temperature > high:
		outside = temperature - high
	}

	return TemperatureStress{
		EffectiveLow:          low,
		EffectiveHigh:         high,
		DegreesOutside:        outside,
		Severity:              bucket(outside, thermalMildBound, thermalModerateBound, thermalSevereBound),
		EnergyDrainMultiplier: 1 + thermalDrainPerDegree*outside,
		HealthDamageRate:      math.Max(0, outside-thermalGraceDegrees) * thermalDamagePerDegree,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
