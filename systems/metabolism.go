package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/traits"
)

// Base metabolism scales from half to one and a half times the configured
// base as metabolism_rate goes from 0 to 1.
const metabolismFloor = 0.5

// MetabolismSystem runs one tick of foraging and spending for every
// organism.
type MetabolismSystem struct {
	filter *ecs.Filter4[components.Heredity, components.Vitals, components.Energy, components.Stress]
	budget *energy.Budget
	cfg    config.EnergyConfig
}

// NewMetabolismSystem creates a new metabolism system.
func NewMetabolismSystem(w *ecs.World, budget *energy.Budget, cfg config.EnergyConfig) *MetabolismSystem {
	return &MetabolismSystem{
		filter: ecs.NewFilter4[components.Heredity, components.Vitals, components.Energy, components.Stress](w),
		budget: budget,
		cfg:    cfg,
	}
}

// Update applies metabolism to all living organisms, first refreshing each
// cost breakdown against the traits of the current tick. Returns the number
// starving after the tick.
func (s *MetabolismSystem) Update() int {
	starving := 0
	query := s.filter.Query()
	for query.Next() {
		h, v, e, st := query.Get()
		if !v.Alive {
			continue
		}
		s.budget.Refresh(&e.Breakdown, h.Phenotype)
		if ApplyMetabolism(h.Phenotype, v, e, st, s.cfg) {
			starving++
		}
	}
	return starving
}

// ForageIncome is the energy gathered per tick: the better digestion
// pathway scaled by the specialist bonus.
func ForageIncome(p energy.TraitReader, b energy.Breakdown, cfg config.EnergyConfig) float64 {
	eff := math.Max(p.GetTrait(traits.PlantDigestion), p.GetTrait(traits.MeatDigestion))
	return cfg.ForageIncome * eff * b.SpecialistBonus
}

// ApplyMetabolism forages, pays upkeep scaled by stress drain and
// activity, and applies starvation damage. Returns whether the organism
// is starving.
func ApplyMetabolism(p energy.TraitReader, v *components.Vitals, e *components.Energy, st *components.Stress, cfg config.EnergyConfig) bool {
	drain := st.DrainMultiplier()
	scale := e.Breakdown.Overhead * drain

	e.State.BaseMetabolism = cfg.BaseMetabolism * (metabolismFloor + p.GetTrait(traits.MetabolismRate)) * scale
	e.State.Maintenance = e.Breakdown.Maintenance * scale

	income := ForageIncome(p, e.Breakdown, cfg)
	activity := cfg.ActivityCost * p.GetTrait(traits.LocomotionSpeed)

	energy.UpdateEnergy(&e.State, income, activity)
	e.Income = income
	e.Spent = e.State.BaseMetabolism + e.State.Maintenance + activity

	v.StarvationDamage = 0
	if energy.IsStarving(e.State, cfg.StarvationThreshold) {
		v.StarvationDamage = cfg.StarvationDamage
		v.Health = math.Max(0, v.Health-cfg.StarvationDamage)
		return true
	}
	return false
}
