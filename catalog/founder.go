package catalog

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/heredity/genetics"
)

// Founder allele strengths are drawn from this band.
const (
	founderStrengthMin = 0.4
	founderStrengthMax = 0.9
)

// NewFounder builds a genome carrying every gene in reg. Each allele starts
// at the gene's default, displaced by up to jitter of the gene's range.
// Bool genes use the default as the probability of true.
func NewFounder(reg *genetics.Registry, jitter float64, rng *rand.Rand) (*genetics.Genome, error) {
	return NewFounderWith(reg, nil, jitter, rng)
}

// NewFounderWith is NewFounder with per-gene default overrides, used to
// seed distinct lineages. Overrides naming unknown genes are rejected.
func NewFounderWith(reg *genetics.Registry, overrides map[string]float64, jitter float64, rng *rand.Rand) (*genetics.Genome, error) {
	for id := range overrides {
		if !reg.Has(id) {
			return nil, fmt.Errorf("%w: override for unknown gene %s", genetics.ErrNotFound, id)
		}
	}

	g := genetics.NewGenome()
	for _, def := range reg.Definitions() {
		center := def.Default
		if v, ok := overrides[def.ID]; ok {
			center = v
		}
		a1, err := founderAllele(def, center, jitter, rng)
		if err != nil {
			return nil, err
		}
		a2, err := founderAllele(def, center, jitter, rng)
		if err != nil {
			return nil, err
		}
		if err := g.AddGene(genetics.NewGene(def.ID, a1, a2), def.Category); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func founderAllele(def *genetics.GeneDefinition, center, jitter float64, rng *rand.Rand) (genetics.Allele, error) {
	strength := founderStrengthMin + rng.Float64()*(founderStrengthMax-founderStrengthMin)
	span := (def.Limits.Max - def.Limits.Min) * jitter
	offset := (rng.Float64()*2 - 1) * span

	var v genetics.Value
	switch def.Kind {
	case genetics.KindFloat:
		v = genetics.Float(def.Limits.Clamp(center + offset))
	case genetics.KindInt:
		v = genetics.Int(int64(math.Round(def.Limits.Clamp(center + offset))))
	case genetics.KindBool:
		v = genetics.Bool(rng.Float64() < center)
	default:
		return genetics.Allele{}, fmt.Errorf("%w: no founder value for %s gene %s", genetics.ErrInvalidArgument, def.Kind, def.ID)
	}
	return genetics.NewAllele(v, strength), nil
}
