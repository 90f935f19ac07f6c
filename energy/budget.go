// Package energy derives an organism's running costs from its genome and
// phenotype and applies them to its energy store.
package energy

import (
	"math"

	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/traits"
)

// Defaults for the budget rules.
const (
	DefaultStarvationThreshold = 0.1

	specialistScale     = 0.3  // Bonus per unit of plant/meat digestion gap
	overheadBase        = 1.08 // Cost multiplier per active digestion pathway
	overheadActiveLevel = 0.3  // Digestion trait level that counts as active

	reserveFraction    = 0.2 // Minimum reserve as a fraction of max energy
	reserveMaintenance = 2.0 // Minimum reserve in ticks of maintenance
)

// TraitReader is the slice of a phenotype the budget needs.
type TraitReader interface {
	GetTrait(trait string) float64
}

// State is an organism's energy store and its fixed per-tick costs.
type State struct {
	Current        float64
	Max            float64
	BaseMetabolism float64
	Maintenance    float64
}

// Ratio returns Current/Max, or 0 for an empty store.
func (s State) Ratio() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Current / s.Max
}

// Breakdown is the cost structure derived from one genome.
type Breakdown struct {
	Maintenance     float64
	SpecialistBonus float64
	Overhead        float64
}

// UpkeepPerTick returns (base + maintenance) scaled by metabolic overhead.
func (b Breakdown) UpkeepPerTick(baseMetabolism float64) float64 {
	return (baseMetabolism + b.Maintenance) * b.Overhead
}

// Budget computes energy costs against a gene catalog.
type Budget struct {
	defs genetics.DefinitionSource
}

// NewBudget creates a budget reading maintenance models from defs.
func NewBudget(defs genetics.DefinitionSource) *Budget {
	return &Budget{defs: defs}
}

// CalculateMaintenanceCost sums, over every gene the genome carries,
// maintenance_cost · avg_strength^cost_scaling. Genes missing from the
// catalog cost nothing.
func (b *Budget) CalculateMaintenanceCost(genome *genetics.Genome) float64 {
	var total float64
	genome.Genes(func(_ genetics.Category, g genetics.Gene) {
		def, ok := b.defs.Definition(g.ID())
		if !ok {
			return
		}
		total += def.MaintenanceCost * math.Pow(g.AverageStrength(), def.CostScaling)
	})
	return total
}

// CalculateSpecialistBonus rewards committing to one food source:
// 1 + 0.3·|plant − meat|.
func (b *Budget) CalculateSpecialistBonus(p TraitReader) float64 {
	plant := p.GetTrait(traits.PlantDigestion)
	meat := p.GetTrait(traits.MeatDigestion)
	return 1.0 + specialistScale*math.Abs(plant-meat)
}

// CalculateMetabolicOverhead charges 8 % compounding per active digestion
// pathway.
func (b *Budget) CalculateMetabolicOverhead(p TraitReader) float64 {
	active := 0
	for _, name := range traits.DigestionTraits {
		if p.GetTrait(name) > overheadActiveLevel {
			active++
		}
	}
	return math.Pow(overheadBase, float64(active))
}

// Evaluate computes the full cost breakdown.
func (b *Budget) Evaluate(genome *genetics.Genome, p TraitReader) Breakdown {
	return Breakdown{
		Maintenance:     b.CalculateMaintenanceCost(genome),
		SpecialistBonus: b.CalculateSpecialistBonus(p),
		Overhead:        b.CalculateMetabolicOverhead(p),
	}
}

// Refresh re-derives the trait-driven parts of bd from p's current
// traits. Maintenance depends only on the genome and is left alone.
func (b *Budget) Refresh(bd *Breakdown, p TraitReader) {
	bd.SpecialistBonus = b.CalculateSpecialistBonus(p)
	bd.Overhead = b.CalculateMetabolicOverhead(p)
}

// UpdateEnergy applies one tick of income and spending, clamped to
// [0, Max]. Returns the new current energy.
func UpdateEnergy(s *State, income, activity float64) float64 {
	spend := s.BaseMetabolism + s.Maintenance + activity
	s.Current = clamp(s.Current+income-spend, 0, s.Max)
	return s.Current
}

// IsStarving reports whether the store is at or below threshold of max.
func IsStarving(s State, threshold float64) bool {
	if s.Max <= 0 {
		return true
	}
	return s.Current/s.Max <= threshold
}

// CanReproduce reports whether paying cost leaves at least
// max(20 % of max energy, two ticks of maintenance).
func CanReproduce(s State, cost float64) bool {
	reserve := math.Max(reserveFraction*s.Max, reserveMaintenance*s.Maintenance)
	return s.Current-cost >= reserve
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
