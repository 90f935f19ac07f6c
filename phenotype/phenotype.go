// Package phenotype resolves a genome into runtime trait values. Every
// trait runs through a fixed pipeline: dominance expression of every
// contributing gene, aggregation by effect type, then age, environment and
// organism-state modulation applied once to the aggregate, then the
// per-organism cache.
package phenotype

import (
	"github.com/pthm-cable/heredity/genetics"
)

// Phenotype is one organism's view of its genome. It does not own the
// genome or registry; it must be bound to the genome of the organism that
// owns it and rebound (see Rebind) if that genome is replaced.
type Phenotype struct {
	genome   *genetics.Genome
	registry *genetics.Registry

	env EnvironmentState
	org OrganismState

	cache map[string]float64
	raw   map[string]float64

	hits   uint64
	misses uint64
}

// New binds a phenotype to genome and registry with default context.
func New(genome *genetics.Genome, registry *genetics.Registry) *Phenotype {
	return &Phenotype{
		genome:   genome,
		registry: registry,
		env:      DefaultEnvironment(),
		org:      DefaultOrganism(),
		cache:    make(map[string]float64),
		raw:      make(map[string]float64),
	}
}

// Genome returns the bound genome.
func (p *Phenotype) Genome() *genetics.Genome { return p.genome }

// Registry returns the bound registry.
func (p *Phenotype) Registry() *genetics.Registry { return p.registry }

// Rebind points the phenotype at a different genome and drops all cached
// traits.
func (p *Phenotype) Rebind(genome *genetics.Genome) {
	p.genome = genome
	p.InvalidateCache()
}

// Environment returns the current environment context.
func (p *Phenotype) Environment() EnvironmentState { return p.env }

// Organism returns the current organism context.
func (p *Phenotype) Organism() OrganismState { return p.org }

// UpdateContext installs new context. The cache is invalidated when either
// value changes. Reports whether anything changed.
func (p *Phenotype) UpdateContext(env EnvironmentState, org OrganismState) bool {
	if env == p.env && org == p.org {
		return false
	}
	p.env = env
	p.org = org
	p.InvalidateCache()
	return true
}

// InvalidateCache drops every cached trait. Call it after mutating the
// bound genome in place.
func (p *Phenotype) InvalidateCache() {
	clear(p.cache)
	clear(p.raw)
}

// CacheStats returns trait cache hits and misses since creation.
func (p *Phenotype) CacheStats() (hits, misses uint64) {
	return p.hits, p.misses
}

// CachedTraits returns the number of traits currently cached.
func (p *Phenotype) CachedTraits() int { return len(p.cache) }

// ExpressGene resolves gene id under the definition's dominance rule.
// Reports false if the genome lacks the gene or its value is not numeric.
func (p *Phenotype) ExpressGene(id string, def *genetics.GeneDefinition) (float64, bool) {
	gene, ok := p.genome.TryGetGene(id)
	if !ok {
		return 0, false
	}
	v, err := gene.NumericValue(def.Dominance)
	if err != nil {
		return 0, false
	}
	return v, true
}

// GetTrait returns the fully modulated value of trait. Unknown traits
// return 0; use HasTrait to tell absence from a true zero.
func (p *Phenotype) GetTrait(trait string) float64 {
	if v, ok := p.cache[trait]; ok {
		p.hits++
		return v
	}
	p.misses++
	v, _ := p.compute(trait, true)
	p.cache[trait] = v
	return v
}

// ComputeTraitRaw returns trait with age and environment modulation but
// without the organism-state step, so identity-like reads stay stable
// across wounds and hunger.
func (p *Phenotype) ComputeTraitRaw(trait string) float64 {
	if v, ok := p.raw[trait]; ok {
		return v
	}
	v, _ := p.compute(trait, false)
	p.raw[trait] = v
	return v
}

// HasTrait reports whether any gene present in the genome contributes to
// trait.
func (p *Phenotype) HasTrait(trait string) bool {
	for _, c := range p.registry.ContributorsFor(trait) {
		if _, ok := p.ExpressGene(c.Definition.ID, c.Definition); ok {
			return true
		}
	}
	return false
}

// Snapshot evaluates every trait the registry knows about that this genome
// expresses.
func (p *Phenotype) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	for _, name := range p.registry.Traits() {
		if p.HasTrait(name) {
			out[name] = p.GetTrait(name)
		}
	}
	return out
}

// compute aggregates all contributions to trait from their expressed
// values and modulates the aggregate once:
//
//	base  = Σ direct + Σ additive + Σ threshold steps
//	base += Σ conditional, only when the direct sum is positive
//	trait = modulate(base · Π multiplicative)
//
// The organism-state policy is the one of the trait's namesake gene, or of
// the first present direct contributor when the trait has no namesake.
func (p *Phenotype) compute(trait string, withOrganism bool) (float64, bool) {
	var direct, additive, conditional float64
	multiplier := 1.0
	found := false
	policy, named := p.registry.Policy(trait)

	for _, c := range p.registry.ContributorsFor(trait) {
		v, ok := p.ExpressGene(c.Definition.ID, c.Definition)
		if !ok {
			continue
		}
		found = true

		b := c.Binding
		switch b.Type {
		case genetics.Direct:
			direct += v * b.Scale
			if !named {
				policy, named = c.Definition.Policy, true
			}
		case genetics.Additive:
			additive += v * b.Scale
		case genetics.Threshold:
			if v >= thresholdLevel {
				additive += b.Scale
			}
		case genetics.Conditional:
			conditional += v * b.Scale
		case genetics.Multiplicative:
			multiplier *= v * b.Scale
		}
	}

	if !found {
		return 0, false
	}

	base := direct + additive
	if direct > 0 {
		base += conditional
	}
	v := ApplyAgeModulation(base*multiplier, p.org.AgeNormalized)
	v = ApplyEnvironmentModulation(trait, v, p.env)
	if withOrganism {
		v = ApplyOrganismStateModulation(v, policy, p.org)
	}
	return v, true
}

// thresholdLevel is the expressed value at which a threshold binding fires.
const thresholdLevel = 0.5
