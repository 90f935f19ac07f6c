package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/traits"
)

// Budding parents carry the whole litter cost alone.
const buddingCostFactor = 2.0

// Birth describes an offspring produced by the breeding system. The
// caller spawns it once the query has completed.
type Birth struct {
	Heredity   components.Heredity
	Lineage    uint8
	Generation uint32
	Parents    [2]uint32 // Second parent is 0 for budding
	Sexual     bool
}

// BreedingSystem handles sexual reproduction and the budding fallback.
type BreedingSystem struct {
	filter       *ecs.Filter3[components.Heredity, components.Vitals, components.Energy]
	cfg          config.ReproductionConfig
	mutationRate float64
	reg          *genetics.Registry
	rng          *rand.Rand
}

// NewBreedingSystem creates a new breeding system.
func NewBreedingSystem(w *ecs.World, cfg config.ReproductionConfig, mutationRate float64, reg *genetics.Registry, rng *rand.Rand) *BreedingSystem {
	return &BreedingSystem{
		filter:       ecs.NewFilter3[components.Heredity, components.Vitals, components.Energy](w),
		cfg:          cfg,
		mutationRate: mutationRate,
		reg:          reg,
		rng:          rng,
	}
}

// breeder holds data for a potential breeding organism.
type breeder struct {
	h *components.Heredity
	v *components.Vitals
	e *components.Energy
}

// Update pairs eligible organisms and returns the offspring, never more
// than room allows.
func (s *BreedingSystem) Update(room int) []Birth {
	if room <= 0 {
		return nil
	}

	// Collect all potential breeders
	var breeders []breeder
	query := s.filter.Query()
	for query.Next() {
		h, v, e := query.Get()
		if s.isEligible(h, v, e) {
			breeders = append(breeders, breeder{h: h, v: v, e: e})
		}
	}

	var births []Birth
	bred := make([]bool, len(breeders))

	for i := range breeders {
		if len(births) >= room {
			break
		}
		if bred[i] {
			continue
		}
		a := &breeders[i]

		if j := s.findMate(breeders, bred, i); j >= 0 {
			b := &breeders[j]
			births = append(births, s.breedSexual(a, b, room-len(births))...)
			bred[i], bred[j] = true, true
			continue
		}

		if s.cfg.Budding && energy.CanReproduce(a.e.State, s.cfg.Cost*buddingCostFactor) {
			births = append(births, s.breedBudding(a))
			bred[i] = true
		}
	}
	return births
}

// isEligible checks maturity, cooldown, the energy reserve and the
// fertility gate. Fertility is energy gated, so the gate scales it by the
// energy ratio here.
func (s *BreedingSystem) isEligible(h *components.Heredity, v *components.Vitals, e *components.Energy) bool {
	if !v.Alive || v.BreedCooldown > 0 {
		return false
	}
	if v.AgeNormalized() < s.cfg.MaturityAge {
		return false
	}
	if !energy.CanReproduce(e.State, s.cfg.Cost) {
		return false
	}
	fertility := h.Phenotype.GetTrait(traits.Fertility) * e.State.Ratio()
	return s.rng.Float64() < fertility
}

// findMate samples candidates for a genetically compatible partner.
func (s *BreedingSystem) findMate(breeders []breeder, bred []bool, i int) int {
	if len(breeders) < 2 {
		return -1
	}
	a := breeders[i].h.Genome
	for n := 0; n < s.cfg.MaxMateAttempts; n++ {
		j := s.rng.Intn(len(breeders))
		if j == i || bred[j] {
			continue
		}
		if a.Compare(breeders[j].h.Genome) >= s.cfg.CompatThreshold {
			return j
		}
	}
	return -1
}

// litterSize reads the energy-gated litter_size trait, scaled by the
// parents' mean energy ratio.
func litterSize(a, b *breeder, limit int) int {
	ratio := (a.e.State.Ratio() + b.e.State.Ratio()) / 2
	mean := (a.h.Phenotype.GetTrait(traits.LitterSize) + b.h.Phenotype.GetTrait(traits.LitterSize)) / 2
	n := int(math.Round(mean * ratio))
	if n < 1 {
		n = 1
	}
	if n > limit {
		n = limit
	}
	return n
}

// breedSexual produces a litter by crossover and mutation of both parents.
func (s *BreedingSystem) breedSexual(a, b *breeder, limit int) []Birth {
	n := litterSize(a, b, limit)
	gen := a.v.Generation
	if b.v.Generation > gen {
		gen = b.v.Generation
	}

	births := make([]Birth, 0, n)
	for k := 0; k < n; k++ {
		g, err := genetics.Crossover(a.h.Genome, b.h.Genome, s.cfg.RecombinationRate, s.rng)
		if err != nil {
			slog.Warn("crossover failed", "parent_a", a.v.ID, "parent_b", b.v.ID, "error", err)
			continue
		}
		g.Mutate(s.mutationRate, s.reg, s.rng)

		h := components.NewHeredity(g, s.reg)
		h.Phenotype.UpdateContext(a.h.Phenotype.Environment(), a.h.Phenotype.Organism())

		births = append(births, Birth{
			Heredity:   h,
			Lineage:    a.v.Lineage,
			Generation: gen + 1,
			Parents:    [2]uint32{a.v.ID, b.v.ID},
			Sexual:     true,
		})
	}

	// Cost to both parents (shared cost)
	a.e.State.Current -= s.cfg.Cost
	b.e.State.Current -= s.cfg.Cost
	a.v.BreedCooldown = int32(s.cfg.CooldownTicks)
	b.v.BreedCooldown = int32(s.cfg.CooldownTicks)
	return births
}

// breedBudding clones the parent and mutates the copy.
func (s *BreedingSystem) breedBudding(a *breeder) Birth {
	h := a.h.Clone()
	h.Genome.Mutate(s.mutationRate, s.reg, s.rng)
	// Mutation leaves the genome index valid but not the trait cache.
	h.Phenotype.InvalidateCache()

	a.e.State.Current -= s.cfg.Cost * buddingCostFactor
	a.v.BreedCooldown = int32(s.cfg.CooldownTicks)

	return Birth{
		Heredity:   h,
		Lineage:    a.v.Lineage,
		Generation: a.v.Generation + 1,
		Parents:    [2]uint32{a.v.ID, 0},
	}
}
