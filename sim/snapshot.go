package sim

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/telemetry"
)

// Snapshot captures the living population so a run can be resumed.
func (w *World) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: w.seed,
		Tick:    w.tick,
		NextID:  w.nextID,
	}

	query := w.filter.Query()
	for query.Next() {
		h, v, e, _ := query.Get()
		if !v.Alive {
			continue
		}
		snap.Organisms = append(snap.Organisms, telemetry.OrganismState{
			ID:            v.ID,
			Lineage:       v.Lineage,
			Generation:    v.Generation,
			AgeTicks:      v.AgeTicks,
			LifespanTicks: v.LifespanTicks,
			BreedCooldown: v.BreedCooldown,
			Health:        v.Health,
			Energy:        e.State.Current,
			Genome:        h.Genome.Clone(),
		})
	}
	return snap
}

// Restore creates a world from cfg populated from snap instead of fresh
// founders. The random source is reseeded from the snapshot seed and tick,
// so a restored run diverges from the one that wrote the snapshot.
func Restore(cfg *config.Config, opts Options, snap *telemetry.Snapshot) (*World, error) {
	if snap.Version != telemetry.SnapshotVersion {
		return nil, fmt.Errorf("sim: snapshot version %d, want %d", snap.Version, telemetry.SnapshotVersion)
	}
	if opts.Seed == 0 {
		opts.Seed = snap.RNGSeed
	}
	w, err := newWorld(cfg, opts)
	if err != nil {
		return nil, err
	}
	w.rng.Seed(w.seed + int64(snap.Tick))
	w.tick = snap.Tick
	w.env = w.climate.At(w.tick)

	var entities []ecs.Entity
	for _, o := range snap.Organisms {
		if o.Genome == nil {
			return nil, fmt.Errorf("sim: snapshot organism %d has no genome", o.ID)
		}
		h := components.NewHeredity(o.Genome.Clone(), w.reg)
		var age float64
		if o.LifespanTicks > 0 {
			age = float64(o.AgeTicks) / float64(o.LifespanTicks)
		}
		entities = append(entities, w.spawn(o.ID, h, o.Lineage, o.Generation, o.Energy/cfg.Energy.Max, age))
		if o.ID >= w.nextID {
			w.nextID = o.ID + 1
		}
	}

	// Spawning moves components, so state is written back afterwards
	for i, entity := range entities {
		o := &snap.Organisms[i]
		_, v, _, _ := w.mapper.Get(entity)
		v.AgeTicks = o.AgeTicks
		v.LifespanTicks = o.LifespanTicks
		v.BreedCooldown = o.BreedCooldown
		v.Health = o.Health
	}
	if snap.NextID > w.nextID {
		w.nextID = snap.NextID
	}
	return w, nil
}
