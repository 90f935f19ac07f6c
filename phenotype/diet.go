package phenotype

import "github.com/pthm-cable/heredity/traits"

// Diet classification thresholds on raw digestion traits.
const (
	dietHigh       = 0.7
	dietLow        = 0.3
	dietModerate   = 0.5
	celluloseSplit = 0.5
)

// CalculateDietType classifies feeding strategy from raw digestion traits.
// Raw values are used so a hungry or wounded organism never flips class.
func (p *Phenotype) CalculateDietType() traits.DietType {
	plant := p.ComputeTraitRaw(traits.PlantDigestion)
	meat := p.ComputeTraitRaw(traits.MeatDigestion)
	cellulose := p.ComputeTraitRaw(traits.CelluloseBreakdown)
	toxin := p.ComputeTraitRaw(traits.ToxinTolerance)

	return ClassifyDiet(plant, meat, cellulose, toxin)
}

// ClassifyDiet applies the diet thresholds to explicit trait values.
func ClassifyDiet(plant, meat, cellulose, toxin float64) traits.DietType {
	switch {
	case meat > dietModerate && toxin > dietHigh && plant < dietLow:
		return traits.Necrovore
	case meat > dietHigh && plant < dietLow:
		return traits.Carnivore
	case plant > dietHigh && meat < dietLow && cellulose > celluloseSplit:
		return traits.Herbivore
	case plant > dietModerate && meat < dietLow && cellulose <= celluloseSplit:
		return traits.Frugivore
	default:
		return traits.Omnivore
	}
}
