package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Climate at window end
	Temperature float64 `csv:"temperature"`
	Moisture    float64 `csv:"moisture"`

	// Population at window end
	Population    int    `csv:"population"`
	MaxGeneration uint32 `csv:"max_generation"`

	// Events during window
	SexualBirths     int `csv:"sexual_births"`
	BuddedBirths     int `csv:"budded_births"`
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsStarvation int `csv:"deaths_starvation"`
	DeathsExposure   int `csv:"deaths_exposure"`

	// Diet distribution
	Omnivores  int `csv:"omnivores"`
	Herbivores int `csv:"herbivores"`
	Frugivores int `csv:"frugivores"`
	Carnivores int `csv:"carnivores"`
	Necrovores int `csv:"necrovores"`

	// Condition (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
	HealthMean float64 `csv:"health_mean"`
	Stressed   int     `csv:"stressed"`
	Starving   int     `csv:"starving"`

	// Trait distributions
	MaxSizeMean          float64 `csv:"max_size_mean"`
	MaxSizeStd           float64 `csv:"max_size_std"`
	FurDensityMean       float64 `csv:"fur_density_mean"`
	FurDensityStd        float64 `csv:"fur_density_std"`
	MetabolismMean       float64 `csv:"metabolism_mean"`
	MetabolismStd        float64 `csv:"metabolism_std"`
	PlantDigestionMean   float64 `csv:"plant_digestion_mean"`
	PlantDigestionStd    float64 `csv:"plant_digestion_std"`
	MeatDigestionMean    float64 `csv:"meat_digestion_mean"`
	MeatDigestionStd     float64 `csv:"meat_digestion_std"`
	WaterStorageMean     float64 `csv:"water_storage_mean"`
	WaterStorageStd      float64 `csv:"water_storage_std"`
	ThermoregulationMean float64 `csv:"thermoregulation_mean"`
	ThermoregulationStd  float64 `csv:"thermoregulation_std"`

	// Genetics
	MeanSimilarity float64 `csv:"mean_similarity"` // Sampled pairwise genome similarity
	CacheHitRate   float64 `csv:"cache_hit_rate"`  // Trait cache hits over lookups
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// ComputeTraitStats returns the mean and sample standard deviation.
// Fewer than two values have zero spread.
func ComputeTraitStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("temperature", s.Temperature),
		slog.Float64("moisture", s.Moisture),
		slog.Int("population", s.Population),
		slog.Int("max_generation", int(s.MaxGeneration)),
		slog.Int("sexual_births", s.SexualBirths),
		slog.Int("budded_births", s.BuddedBirths),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("deaths_exposure", s.DeathsExposure),
		slog.Int("omnivores", s.Omnivores),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("frugivores", s.Frugivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("necrovores", s.Necrovores),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("health_mean", s.HealthMean),
		slog.Int("stressed", s.Stressed),
		slog.Int("starving", s.Starving),
		slog.Float64("max_size_mean", s.MaxSizeMean),
		slog.Float64("fur_density_mean", s.FurDensityMean),
		slog.Float64("metabolism_mean", s.MetabolismMean),
		slog.Float64("plant_digestion_mean", s.PlantDigestionMean),
		slog.Float64("meat_digestion_mean", s.MeatDigestionMean),
		slog.Float64("mean_similarity", s.MeanSimilarity),
		slog.Float64("cache_hit_rate", s.CacheHitRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
