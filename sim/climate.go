// Package sim runs a headless population of organisms whose traits are
// expressed from their genomes.
package sim

import (
	"fmt"
	"math"

	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/phenotype"
)

// Climate supplies the environment organisms experience at a tick.
// Real climate generation lives outside this module.
type Climate interface {
	At(tick int32) phenotype.EnvironmentState
}

// ConstantClimate never changes.
type ConstantClimate struct {
	Env phenotype.EnvironmentState
}

// At returns the fixed environment.
func (c ConstantClimate) At(int32) phenotype.EnvironmentState { return c.Env }

// SeasonalClimate swings temperature sinusoidally around Mean. Moisture
// swings the opposite way, so summers are dry.
type SeasonalClimate struct {
	Mean              phenotype.EnvironmentState
	Amplitude         float64 // °C
	MoistureAmplitude float64
	Step              float64 // Radians per tick
}

// At returns the environment at tick.
func (c SeasonalClimate) At(tick int32) phenotype.EnvironmentState {
	phase := math.Sin(c.Step * float64(tick))
	env := c.Mean
	env.Temperature += c.Amplitude * phase
	env.Moisture = clamp01(env.Moisture - c.MoistureAmplitude*phase)
	return env
}

// NewClimate builds the climate described by cfg. step is the seasonal
// angular step from the derived config.
func NewClimate(cfg config.ClimateConfig, step float64) (Climate, error) {
	mean := phenotype.EnvironmentState{
		Temperature: cfg.Temperature,
		Humidity:    cfg.Humidity,
		Moisture:    cfg.Moisture,
	}
	switch cfg.Mode {
	case "constant":
		return ConstantClimate{Env: mean}, nil
	case "seasonal":
		return SeasonalClimate{
			Mean:              mean,
			Amplitude:         cfg.SeasonAmplitude,
			MoistureAmplitude: cfg.MoistureAmplitude,
			Step:              step,
		}, nil
	default:
		return nil, fmt.Errorf("sim: unknown climate mode %q", cfg.Mode)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
