package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/stress"
)

// StressSystem scores every organism against the climate and applies
// exposure damage.
type StressSystem struct {
	filter *ecs.Filter3[components.Heredity, components.Vitals, components.Stress]
	cfg    config.StressConfig
}

// NewStressSystem creates a new stress system.
func NewStressSystem(w *ecs.World, cfg config.StressConfig) *StressSystem {
	return &StressSystem{
		filter: ecs.NewFilter3[components.Heredity, components.Vitals, components.Stress](w),
		cfg:    cfg,
	}
}

// Update evaluates stress for all living organisms. Returns the number
// outside comfort.
func (s *StressSystem) Update(env phenotype.EnvironmentState) int {
	stressed := 0
	query := s.filter.Query()
	for query.Next() {
		h, v, st := query.Get()
		if !v.Alive {
			continue
		}
		ApplyStress(h.Phenotype, v, st, env, s.cfg)
		if st.Stressed() {
			stressed++
		}
	}
	return stressed
}

// EvaluateStress computes thermal and moisture stress from raw adaptation
// traits.
func EvaluateStress(p stress.RawTraitReader, env phenotype.EnvironmentState, cfg config.StressConfig) components.Stress {
	thermal := stress.ExtractThermalAdaptations(p)
	moisture := stress.ExtractMoistureAdaptations(p)
	return components.Stress{
		Thermal:  stress.CalculateTemperatureStress(env.Temperature, cfg.ToleranceLow, cfg.ToleranceHigh, thermal),
		Moisture: stress.CalculateMoistureStress(env.Moisture, moisture),
	}
}

// ApplyStress evaluates stress and takes the resulting damage from health.
func ApplyStress(p stress.RawTraitReader, v *components.Vitals, st *components.Stress, env phenotype.EnvironmentState, cfg config.StressConfig) {
	*st = EvaluateStress(p, env, cfg)
	damage := st.Thermal.HealthDamageRate + st.Moisture.HealthDamageRate
	v.ExposureDamage = damage
	v.Health = math.Max(0, v.Health-damage)
}
