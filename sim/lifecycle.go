package sim

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/catalog"
	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/systems"
	"github.com/pthm-cable/heredity/traits"
)

// fallbackLifespan is used when the catalog has no lifespan gene.
const fallbackLifespan = 0.5

// spawnInitialPopulation creates the founders of every archetype.
func (w *World) spawnInitialPopulation() {
	for i, arch := range w.cfg.Archetypes {
		spawned := 0
		for n := 0; n < arch.Count; n++ {
			if w.spawnFounder(uint8(i)) {
				spawned++
			}
		}
		slog.Info("founders spawned", "archetype", arch.Name, "count", spawned)
	}
}

// spawnFounder creates a fresh founder of an archetype. Founders start at
// a random age below half their lifespan so old-age deaths are spread out.
// Returns false if the founder genome could not be built.
func (w *World) spawnFounder(lineage uint8) bool {
	arch := &w.cfg.Archetypes[lineage]
	genome, err := catalog.NewFounderWith(w.reg, arch.Overrides, w.cfg.Population.FounderJitter, w.rng)
	if err != nil {
		slog.Warn("founder genome discarded", "archetype", arch.Name, "error", err)
		return false
	}

	h := components.NewHeredity(genome, w.reg)
	w.spawn(w.allocID(), h, lineage, 0, w.cfg.Energy.StartFraction, w.rng.Float64()*0.5)
	return true
}

// spawn creates an organism entity from h, ageFraction of the way through
// its life. Lifespan and maintenance are fixed from the genome; the
// specialist bonus, overhead and diet are first evaluated at that age and
// refreshed as the organism lives.
func (w *World) spawn(id uint32, h components.Heredity, lineage uint8, generation uint32, energyFraction, ageFraction float64) ecs.Entity {
	cfg := w.cfg

	lifespan := int32(math.Max(1, w.lifespanTrait(h)*float64(cfg.Lifecycle.MaxLifespanTicks)))
	vitals := components.Vitals{
		ID:            id,
		Lineage:       lineage,
		Generation:    generation,
		AgeTicks:      int32(ageFraction * float64(lifespan)),
		LifespanTicks: lifespan,
		Health:        1,
		Alive:         true,
	}

	org := phenotype.OrganismState{AgeNormalized: vitals.AgeNormalized(), Health: 1, Energy: energyFraction}
	h.Phenotype.UpdateContext(w.env, org)
	breakdown := w.budget.Evaluate(h.Genome, h.Phenotype)
	diet := h.Phenotype.CalculateDietType()

	en := components.Energy{
		State: energy.State{
			Current:        energyFraction * cfg.Energy.Max,
			Max:            cfg.Energy.Max,
			BaseMetabolism: cfg.Energy.BaseMetabolism,
			Maintenance:    breakdown.Maintenance,
		},
		Breakdown: breakdown,
		Diet:      diet,
	}
	st := systems.EvaluateStress(h.Phenotype, w.env, cfg.Stress)

	entity := w.mapper.NewEntity(&h, &vitals, &en, &st)
	w.alive++
	w.lifetime.Register(id, w.tick, lineage, generation, diet)
	return entity
}

// lifespanTrait reads the lifespan gene without age modulation, which
// would otherwise shorten lives as organisms approach them.
func (w *World) lifespanTrait(h components.Heredity) float64 {
	def, ok := w.reg.Definition(traits.Lifespan)
	if !ok {
		return fallbackLifespan
	}
	v, ok := h.Phenotype.ExpressGene(traits.Lifespan, def)
	if !ok {
		return fallbackLifespan
	}
	return def.Limits.Clamp(v)
}

func (w *World) allocID() uint32 {
	id := w.nextID
	w.nextID++
	return id
}

// spawnBirths adds offspring produced by the breeding system. It runs after
// the breeding query has completed.
func (w *World) spawnBirths(births []systems.Birth) {
	for _, b := range births {
		w.spawn(w.allocID(), b.Heredity, b.Lineage, b.Generation, w.cfg.Reproduction.ChildEnergy, 0)
		w.collector.RecordBirth(b.Sexual)
		w.lifetime.RecordChild(b.Parents[0])
		w.lifetime.RecordChild(b.Parents[1])
	}
}

// cleanupDead removes dead organisms, offering each to the hall of fame.
func (w *World) cleanupDead() {
	// First pass: collect dead entities (must complete before modifying)
	type deadInfo struct {
		entity   ecs.Entity
		id       uint32
		cause    components.DeathCause
		survived int32
		genome   *genetics.Genome
	}
	var toRemove []deadInfo

	query := w.filter.Query()
	for query.Next() {
		h, v, _, _ := query.Get()
		if !v.Alive {
			toRemove = append(toRemove, deadInfo{
				entity:   query.Entity(),
				id:       v.ID,
				cause:    v.Cause,
				survived: v.AgeTicks,
				genome:   h.Genome,
			})
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, dead := range toRemove {
		w.collector.RecordDeath(dead.cause)
		w.hallOfFame.Consider(dead.id, w.lifetime.Get(dead.id), dead.survived, dead.genome)
		w.lifetime.Remove(dead.id)
		w.world.RemoveEntity(dead.entity)
		w.alive--
	}
}

// reseedIfNeeded tops a crashed population back up from the hall of fame,
// cycling through lineages.
func (w *World) reseedIfNeeded() {
	threshold := w.cfg.Population.ReseedBelow
	if w.alive >= threshold || len(w.cfg.Archetypes) == 0 {
		return
	}

	before := w.alive
	fromHall := 0
	for i := 0; i < threshold && w.alive < threshold; i++ {
		lineage := uint8(i % len(w.cfg.Archetypes))
		if w.spawnFromHall(lineage) {
			fromHall++
		}
	}

	slog.Info("hall_of_fame_reseed",
		"tick", w.tick,
		"population_before", before,
		"from_hall", fromHall,
		"fresh_founders", w.alive-before-fromHall,
	)
}

// spawnFromHall creates an organism from a mutated hall of fame genome,
// falling back to a fresh founder when the lineage's hall is empty.
// Returns true if the genome came from the hall.
func (w *World) spawnFromHall(lineage uint8) bool {
	genome := w.hallOfFame.Sample(lineage, w.rng)
	if genome == nil {
		w.spawnFounder(lineage)
		return false
	}

	genome.Mutate(w.cfg.Mutation.Rate, w.reg, w.rng)
	h := components.NewHeredity(genome, w.reg)
	w.spawn(w.allocID(), h, lineage, 0, w.cfg.Energy.StartFraction, 0)
	return true
}
