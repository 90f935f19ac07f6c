package genetics

import (
	"fmt"
	"math"
	"math/rand"
)

// overdominanceBonus is the heterozygote advantage as a fraction of the
// allele spread added above the larger allele.
const overdominanceBonus = 0.25

// Allele is one inherited value slot with its expression strength.
type Allele struct {
	Value    Value
	Strength float64
}

// NewAllele builds an allele, clamping strength into [0, 1].
func NewAllele(v Value, strength float64) Allele {
	return Allele{Value: v, Strength: clamp01(strength)}
}

// Gene is the atomic heredity unit: an id and two alleles.
type Gene struct {
	id      string
	Allele1 Allele
	Allele2 Allele
}

// NewGene creates a gene with the given alleles.
func NewGene(id string, a1, a2 Allele) Gene {
	return Gene{id: id, Allele1: a1, Allele2: a2}
}

// NewHomozygous creates a gene carrying the same allele twice.
func NewHomozygous(id string, a Allele) Gene {
	return Gene{id: id, Allele1: a, Allele2: a}
}

// ID returns the gene id. Ids never change after construction.
func (g Gene) ID() string { return g.id }

// IsHomozygous reports whether both alleles hold the same value.
func (g Gene) IsHomozygous() bool { return g.Allele1.Value.Equal(g.Allele2.Value) }

// AverageStrength is the mean expression strength of the two alleles.
func (g Gene) AverageStrength() float64 {
	return (g.Allele1.Strength + g.Allele2.Strength) / 2
}

// ExpressedValue resolves the two alleles into one value under d.
func (g Gene) ExpressedValue(d Dominance) Value {
	a, b := g.Allele1, g.Allele2
	if a.Value.Equal(b.Value) {
		return a.Value
	}

	switch d {
	case Complete:
		return dominant(a, b).Value
	case Incomplete:
		return blend(a, b)
	case Codominant:
		return codominant(a, b)
	case Overdominant:
		if !a.Value.IsNumeric() || !b.Value.IsNumeric() {
			return blend(a, b)
		}
		v1, _ := a.Value.AsFloat()
		v2, _ := b.Value.AsFloat()
		return a.Value.withFloat(math.Max(v1, v2) + overdominanceBonus*math.Abs(v1-v2))
	default:
		return blend(a, b)
	}
}

// NumericValue is ExpressedValue coerced to float64.
func (g Gene) NumericValue(d Dominance) (float64, error) {
	v, err := g.ExpressedValue(d).AsFloat()
	if err != nil {
		return 0, fmt.Errorf("gene %s: %w", g.id, err)
	}
	return v, nil
}

// dominant returns the allele with the higher strength; ties go to a.
func dominant(a, b Allele) Allele {
	if b.Strength > a.Strength {
		return b
	}
	return a
}

// blend is the strength-weighted mean of two numeric alleles. Zero total
// strength falls back to the plain mean. Strings fall back to Complete.
func blend(a, b Allele) Value {
	if !a.Value.IsNumeric() || !b.Value.IsNumeric() {
		return dominant(a, b).Value
	}
	v1, _ := a.Value.AsFloat()
	v2, _ := b.Value.AsFloat()
	total := a.Strength + b.Strength
	if total <= 0 {
		return a.Value.withFloat((v1 + v2) / 2)
	}
	return a.Value.withFloat((v1*a.Strength + v2*b.Strength) / total)
}

// codominant expresses both alleles fully: each contributes half its value
// and the contributions are summed.
func codominant(a, b Allele) Value {
	switch a.Value.Kind() {
	case KindBool:
		if b.Value.Kind() == KindBool {
			return Bool(a.Value.RawBool() || b.Value.RawBool())
		}
	case KindString:
		if a.Value.Equal(b.Value) {
			return a.Value
		}
		return dominant(a, b).Value
	}
	if !b.Value.IsNumeric() {
		return dominant(a, b).Value
	}
	v1, _ := a.Value.AsFloat()
	v2, _ := b.Value.AsFloat()
	return a.Value.withFloat(v1/2 + v2/2)
}

// Mutate perturbs each allele with probability rate by at most
// limits.Creep, then clamps into [limits.Min, limits.Max].
func (g *Gene) Mutate(rate float64, limits GeneLimits, rng *rand.Rand) {
	g.Allele1.Value = mutateValue(g.Allele1.Value, rate, limits, rng)
	g.Allele2.Value = mutateValue(g.Allele2.Value, rate, limits, rng)
}

func mutateValue(v Value, rate float64, limits GeneLimits, rng *rand.Rand) Value {
	if rng.Float64() >= rate {
		return v
	}
	delta := (rng.Float64()*2 - 1) * limits.Creep

	switch v.Kind() {
	case KindFloat:
		return Float(limits.Clamp(v.RawFloat() + delta))
	case KindInt:
		return Int(clampInt(float64(v.RawInt())+math.Round(delta), limits))
	case KindBool:
		return Bool(!v.RawBool())
	default:
		return v
	}
}

// clampInt rounds x and keeps it inside the integers of [Min, Max]. When the
// limits hold no integer the nearest one to the clamped value wins.
func clampInt(x float64, limits GeneLimits) int64 {
	lo, hi := math.Ceil(limits.Min), math.Floor(limits.Max)
	if lo > hi {
		return int64(math.Round(limits.Clamp(x)))
	}
	x = math.Round(x)
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return int64(x)
}

// CrossoverGenes builds a child gene by independent assortment: allele1 is
// drawn from p1 and allele2 from p2, each chosen at random.
func CrossoverGenes(p1, p2 Gene, rng *rand.Rand) (Gene, error) {
	if p1.id != p2.id {
		return Gene{}, fmt.Errorf("%w: crossover of genes %s and %s", ErrInvalidArgument, p1.id, p2.id)
	}
	return Gene{
		id:      p1.id,
		Allele1: pickAllele(p1, rng),
		Allele2: pickAllele(p2, rng),
	}, nil
}

func pickAllele(g Gene, rng *rand.Rand) Allele {
	if rng.Intn(2) == 0 {
		return g.Allele1
	}
	return g.Allele2
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
