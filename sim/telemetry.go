package sim

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/telemetry"
)

// similarityPairs is the number of random genome pairs compared per window.
const similarityPairs = 64

// flushTelemetry samples the population and writes a stats window when
// one has elapsed.
func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	sample, genomes := w.samplePopulation()
	sample.MeanSimilarity = w.meanSimilarity(genomes)

	stats := w.collector.Flush(w.tick, sample)
	perfStats := w.perf.Stats()
	w.lastStats = stats

	if w.statsCallback != nil {
		w.statsCallback(stats)
	}

	if w.cfg.Telemetry.LogStats {
		stats.LogStats()
		w.logPerfStats(perfStats)
	}

	if err := w.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := w.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// samplePopulation gathers the window-end state of every living organism.
func (w *World) samplePopulation() (telemetry.Sample, []*genetics.Genome) {
	s := telemetry.Sample{
		Env:    w.env,
		Traits: make(map[string][]float64, len(telemetry.TrackedTraits)),
	}
	var genomes []*genetics.Genome

	query := w.filter.Query()
	for query.Next() {
		h, v, e, st := query.Get()
		if !v.Alive {
			continue
		}

		// Diet follows the currently expressed digestion traits
		e.Diet = h.Phenotype.CalculateDietType()

		s.Energies = append(s.Energies, e.State.Ratio())
		s.Healths = append(s.Healths, v.Health)
		s.Diets = append(s.Diets, e.Diet)
		for _, t := range telemetry.TrackedTraits {
			s.Traits[t] = append(s.Traits[t], h.Phenotype.GetTrait(t))
		}
		if st.Stressed() {
			s.Stressed++
		}
		if energy.IsStarving(e.State, w.cfg.Energy.StarvationThreshold) {
			s.Starving++
		}
		if v.Generation > s.MaxGeneration {
			s.MaxGeneration = v.Generation
		}

		hits, misses := h.Phenotype.CacheStats()
		s.CacheHits += hits
		s.CacheMisses += misses

		w.lifetime.RecordEnergy(v.ID, e.State.Current)
		genomes = append(genomes, h.Genome)
	}
	return s, genomes
}

// meanSimilarity estimates mean pairwise genome similarity from random
// pairs. Fewer than two genomes give 0.
func (w *World) meanSimilarity(genomes []*genetics.Genome) float64 {
	n := len(genomes)
	if n < 2 {
		return 0
	}
	sims := make([]float64, 0, similarityPairs)
	for k := 0; k < similarityPairs; k++ {
		i := w.rng.Intn(n)
		j := w.rng.Intn(n - 1)
		if j >= i {
			j++
		}
		sims = append(sims, genomes[i].Compare(genomes[j]))
	}
	return stat.Mean(sims, nil)
}

// logPerfStats logs phase timings under their system display names.
func (w *World) logPerfStats(p telemetry.PerfStats) {
	attrs := []any{
		"tick", w.tick,
		"avg_tick_us", p.AvgTickDuration.Microseconds(),
		"ticks_per_sec", p.TicksPerSecond,
	}
	for _, id := range w.systemInfo.IDs() {
		if pct, ok := p.PhasePct[id]; ok {
			attrs = append(attrs, w.systemInfo.GetName(id), pct)
		}
	}
	slog.Info("perf", attrs...)
}
