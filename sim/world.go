package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/catalog"
	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/systems"
	"github.com/pthm-cable/heredity/telemetry"
)

// Options configures a World beyond what the config file holds.
type Options struct {
	Seed          int64  // Overrides world.seed when non-zero
	OutputDir     string // Overrides telemetry.output_dir when non-empty
	Registry      *genetics.Registry
	Climate       Climate // Overrides the configured climate
	StatsCallback func(telemetry.WindowStats)
}

// World is a headless population of organisms in an ECS world.
type World struct {
	cfg  *config.Config
	reg  *genetics.Registry
	rng  *rand.Rand
	seed int64

	world  *ecs.World
	mapper *ecs.Map4[components.Heredity, components.Vitals, components.Energy, components.Stress]
	filter *ecs.Filter4[components.Heredity, components.Vitals, components.Energy, components.Stress]

	climate Climate
	env     phenotype.EnvironmentState
	budget  *energy.Budget

	// Systems
	expression *systems.ExpressionSystem
	stress     *systems.StressSystem
	metabolism *systems.MetabolismSystem
	aging      *systems.AgingSystem
	breeding   *systems.BreedingSystem
	systemInfo *systems.SystemRegistry

	// Telemetry
	collector     *telemetry.Collector
	lifetime      *telemetry.LifetimeTracker
	hallOfFame    *telemetry.HallOfFame
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats

	tick   int32
	nextID uint32
	alive  int
}

// New creates a world from cfg and spawns the founder population.
func New(cfg *config.Config, opts Options) (*World, error) {
	w, err := newWorld(cfg, opts)
	if err != nil {
		return nil, err
	}
	w.spawnInitialPopulation()
	return w, nil
}

// newWorld builds an empty world.
func newWorld(cfg *config.Config, opts Options) (*World, error) {
	reg := opts.Registry
	if reg == nil {
		var err error
		if reg, err = catalog.Load(cfg.Catalog.Path); err != nil {
			return nil, fmt.Errorf("loading gene catalog: %w", err)
		}
	}

	climate := opts.Climate
	if climate == nil {
		var err error
		if climate, err = NewClimate(cfg.Climate, cfg.Derived.SeasonStep); err != nil {
			return nil, err
		}
	}

	seed := cfg.World.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	outputDir := cfg.Telemetry.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	world := ecs.NewWorld()
	budget := energy.NewBudget(reg)
	w := &World{
		cfg:  cfg,
		reg:  reg,
		rng:  rng,
		seed: seed,

		world:  world,
		mapper: ecs.NewMap4[components.Heredity, components.Vitals, components.Energy, components.Stress](world),
		filter: ecs.NewFilter4[components.Heredity, components.Vitals, components.Energy, components.Stress](world),

		climate: climate,
		env:     climate.At(0),
		budget:  budget,

		expression: systems.NewExpressionSystem(world),
		stress:     systems.NewStressSystem(world, cfg.Stress),
		metabolism: systems.NewMetabolismSystem(world, budget, cfg.Energy),
		aging:      systems.NewAgingSystem(world, cfg.Lifecycle),
		breeding:   systems.NewBreedingSystem(world, cfg.Reproduction, cfg.Mutation.Rate, reg, rng),
		systemInfo: systems.NewSystemRegistry(),

		collector:     telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		lifetime:      telemetry.NewLifetimeTracker(),
		hallOfFame:    telemetry.NewHallOfFame(cfg.HallOfFame, len(cfg.Archetypes)),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.WindowTicks),
		output:        output,
		statsCallback: opts.StatsCallback,

		nextID: 1,
	}

	slog.Info("world created",
		"seed", seed,
		"genes", reg.Len(),
		"climate", cfg.Climate.Mode,
		"output_dir", output.Dir(),
	)
	return w, nil
}

// Step advances the simulation by one tick.
func (w *World) Step() {
	w.perf.StartTick()
	w.env = w.climate.At(w.tick)

	w.perf.StartPhase(telemetry.PhaseExpression)
	w.expression.Update(w.env)

	w.perf.StartPhase(telemetry.PhaseStress)
	w.stress.Update(w.env)

	w.perf.StartPhase(telemetry.PhaseMetabolism)
	w.metabolism.Update()

	w.perf.StartPhase(telemetry.PhaseAging)
	w.aging.Update()

	w.perf.StartPhase(telemetry.PhaseBreeding)
	births := w.breeding.Update(w.cfg.Population.Max - w.alive)
	w.spawnBirths(births)

	w.perf.StartPhase(telemetry.PhaseCleanup)
	w.cleanupDead()
	w.reseedIfNeeded()

	w.tick++

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	w.flushTelemetry()

	w.perf.EndTick()
}

// Run steps the world ticks times, stopping early if ctx is done.
func (w *World) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Step()
	}
	return nil
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int32 { return w.tick }

// Population returns the number of living organisms.
func (w *World) Population() int { return w.alive }

// Registry returns the gene registry organisms are expressed against.
func (w *World) Registry() *genetics.Registry { return w.reg }

// Environment returns the climate of the current tick.
func (w *World) Environment() phenotype.EnvironmentState { return w.env }

// HallOfFame returns the proven-genome store.
func (w *World) HallOfFame() *telemetry.HallOfFame { return w.hallOfFame }

// LastStats returns the most recently flushed window.
func (w *World) LastStats() telemetry.WindowStats { return w.lastStats }

// Close writes the hall of fame and a final snapshot, then closes output
// files.
func (w *World) Close() error {
	if w.output == nil {
		return nil
	}
	if err := w.output.WriteHallOfFame(w.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := w.output.WriteSnapshot(w.Snapshot()); err != nil {
		slog.Error("failed to write snapshot", "error", err)
	}
	return w.output.Close()
}
