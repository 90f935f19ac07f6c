// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Population   PopulationConfig   `yaml:"population"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Energy       EnergyConfig       `yaml:"energy"`
	Lifecycle    LifecycleConfig    `yaml:"lifecycle"`
	Stress       StressConfig       `yaml:"stress"`
	Climate      ClimateConfig      `yaml:"climate"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	HallOfFame   HallOfFameConfig   `yaml:"hall_of_fame"`
	Archetypes   []ArchetypeConfig  `yaml:"archetypes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds run-level parameters.
type WorldConfig struct {
	Seed int64 `yaml:"seed"` // RNG seed for founders, mutation and crossover
}

// CatalogConfig selects the gene catalog.
type CatalogConfig struct {
	Path string `yaml:"path"` // Empty uses the built-in catalog
}

// PopulationConfig holds population size parameters.
type PopulationConfig struct {
	Initial       int     `yaml:"initial"`        // Founders spawned when no archetypes set counts
	Max           int     `yaml:"max"`            // Births are suppressed at this population
	FounderJitter float64 `yaml:"founder_jitter"` // Allele displacement as a fraction of gene range
	ReseedBelow   int     `yaml:"reseed_below"`   // Reseed from the hall of fame under this population
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // Per-allele mutation probability at birth
}

// ReproductionConfig holds breeding parameters.
type ReproductionConfig struct {
	RecombinationRate float64 `yaml:"recombination_rate"` // Source-switch probability per locus
	MaturityAge       float64 `yaml:"maturity_age"`       // Normalized age before breeding is allowed
	Cost              float64 `yaml:"cost"`               // Energy paid by each parent per litter
	CompatThreshold   float64 `yaml:"compat_threshold"`   // Minimum genome similarity for a mate
	CooldownTicks     int     `yaml:"cooldown_ticks"`     // Ticks between litters per parent
	MaxMateAttempts   int     `yaml:"max_mate_attempts"`  // Candidates sampled when looking for a mate
	ChildEnergy       float64 `yaml:"child_energy"`       // Fraction of max energy a newborn starts with
	Budding           bool    `yaml:"budding"`            // Clone-and-mutate when no mate is compatible
}

// EnergyConfig holds energy budget parameters.
type EnergyConfig struct {
	Max                 float64 `yaml:"max"`                  // Energy store capacity
	StartFraction       float64 `yaml:"start_fraction"`       // Founder starting energy as a fraction of Max
	BaseMetabolism      float64 `yaml:"base_metabolism"`      // Per-tick cost before genes
	StarvationThreshold float64 `yaml:"starvation_threshold"` // Ratio at or below which an organism starves
	StarvationDamage    float64 `yaml:"starvation_damage"`    // Health lost per tick while starving
	ForageIncome        float64 `yaml:"forage_income"`        // Income per tick at full digestion
	ActivityCost        float64 `yaml:"activity_cost"`        // Cost per tick at full locomotion speed
}

// LifecycleConfig holds aging parameters.
type LifecycleConfig struct {
	MaxLifespanTicks int     `yaml:"max_lifespan_ticks"` // Lifespan of an organism with lifespan trait 1.0
	HealthRegen      float64 `yaml:"health_regen"`       // Health recovered per tick when unstressed
}

// StressConfig holds the base thermal tolerance band before adaptations.
type StressConfig struct {
	ToleranceLow  float64 `yaml:"tolerance_low"`
	ToleranceHigh float64 `yaml:"tolerance_high"`
}

// ClimateConfig holds stand-in climate parameters.
type ClimateConfig struct {
	Mode              string  `yaml:"mode"`        // constant or seasonal
	Temperature       float64 `yaml:"temperature"` // Mean temperature in °C
	Humidity          float64 `yaml:"humidity"`
	Moisture          float64 `yaml:"moisture"`
	SeasonAmplitude   float64 `yaml:"season_amplitude"`   // Temperature swing in °C
	MoistureAmplitude float64 `yaml:"moisture_amplitude"` // Moisture swing, opposite phase to temperature
	SeasonTicks       int     `yaml:"season_ticks"`       // Ticks per full seasonal cycle
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int    `yaml:"window_ticks"` // Ticks per stats window
	OutputDir   string `yaml:"output_dir"`   // Empty disables CSV output
	LogStats    bool   `yaml:"log_stats"`    // Log each window via slog
}

// HallOfFameConfig holds parameters for keeping proven genomes.
type HallOfFameConfig struct {
	Size             int     `yaml:"size"`               // Entries kept per lineage
	MinChildren      int     `yaml:"min_children"`       // Entry by reproduction
	MinSurvivalTicks int     `yaml:"min_survival_ticks"` // Entry by survival
	ChildrenWeight   float64 `yaml:"children_weight"`    // Fitness per child
	SurvivalWeight   float64 `yaml:"survival_weight"`    // Fitness per tick survived
}

// ArchetypeConfig defines a founder lineage by overriding gene defaults.
type ArchetypeConfig struct {
	Name      string             `yaml:"name"`
	Count     int                `yaml:"count"`     // Founders of this lineage
	Overrides map[string]float64 `yaml:"overrides"` // gene id -> founder default
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SeasonStep     float64          // Radians per tick of the seasonal cycle
	FounderCount   int              // Total founders across archetypes
	ArchetypeIndex map[string]uint8 // name -> index for archetype lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init() was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from path, overlaying the embedded defaults.
// If path is empty, only defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Climate.Mode {
	case "constant", "seasonal":
	default:
		return fmt.Errorf("config: unknown climate mode %q", c.Climate.Mode)
	}
	if c.Reproduction.RecombinationRate < 0 || c.Reproduction.RecombinationRate > 1 {
		return fmt.Errorf("config: recombination_rate %g outside [0, 1]", c.Reproduction.RecombinationRate)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		return fmt.Errorf("config: mutation rate %g outside [0, 1]", c.Mutation.Rate)
	}
	if c.Energy.Max <= 0 {
		return fmt.Errorf("config: energy max must be positive")
	}
	if c.Lifecycle.MaxLifespanTicks <= 0 {
		return fmt.Errorf("config: max_lifespan_ticks must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Climate.SeasonTicks > 0 {
		c.Derived.SeasonStep = 2 * math.Pi / float64(c.Climate.SeasonTicks)
	}

	// Without archetypes every founder is a plain catalog founder
	if len(c.Archetypes) == 0 {
		c.Archetypes = []ArchetypeConfig{{Name: "founder", Count: c.Population.Initial}}
	}

	c.Derived.FounderCount = 0
	c.Derived.ArchetypeIndex = make(map[string]uint8, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		c.Derived.FounderCount += arch.Count
		c.Derived.ArchetypeIndex[arch.Name] = uint8(i)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
