package genetics

import "fmt"

// Category identifies one of the fixed chromosomes of a genome.
type Category uint8

const (
	Morphology Category = iota
	Sensory
	Metabolism
	Locomotion
	Behavior
	Reproduction
	Environmental
	Lifecycle

	// NumCategories is the number of chromosomes in every genome.
	NumCategories = 8
)

var categoryNames = [NumCategories]string{
	Morphology:    "morphology",
	Sensory:       "sensory",
	Metabolism:    "metabolism",
	Locomotion:    "locomotion",
	Behavior:      "behavior",
	Reproduction:  "reproduction",
	Environmental: "environmental",
	Lifecycle:     "lifecycle",
}

func (c Category) String() string {
	if int(c) < NumCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c names one of the fixed chromosomes.
func (c Category) Valid() bool { return int(c) < NumCategories }

// ParseCategory converts a category name; unknown names are rejected.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown chromosome category %q", ErrInvalidArgument, s)
}

// Categories returns all categories in chromosome order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Dominance is the rule resolving two alleles into one expressed value.
type Dominance uint8

const (
	Complete Dominance = iota
	Incomplete
	Codominant
	Overdominant
)

var dominanceNames = [...]string{
	Complete:     "complete",
	Incomplete:   "incomplete",
	Codominant:   "codominant",
	Overdominant: "overdominant",
}

func (d Dominance) String() string {
	if int(d) < len(dominanceNames) {
		return dominanceNames[d]
	}
	return fmt.Sprintf("Dominance(%d)", uint8(d))
}

// ParseDominance converts a dominance name; unknown names are rejected.
func ParseDominance(s string) (Dominance, error) {
	for i, name := range dominanceNames {
		if name == s {
			return Dominance(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dominance type %q", ErrInvalidArgument, s)
}

// EffectType is how a binding folds a gene's value into its target trait.
type EffectType uint8

const (
	Direct EffectType = iota
	Additive
	Multiplicative
	Threshold
	Conditional
)

var effectTypeNames = [...]string{
	Direct:         "direct",
	Additive:       "additive",
	Multiplicative: "multiplicative",
	Threshold:      "threshold",
	Conditional:    "conditional",
}

func (e EffectType) String() string {
	if int(e) < len(effectTypeNames) {
		return effectTypeNames[e]
	}
	return fmt.Sprintf("EffectType(%d)", uint8(e))
}

// ParseEffectType converts an effect type name; unknown names are rejected.
func ParseEffectType(s string) (EffectType, error) {
	for i, name := range effectTypeNames {
		if name == s {
			return EffectType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown effect type %q", ErrInvalidArgument, s)
}

// ModulationPolicy governs how momentary organism condition scales an
// already expressed trait.
type ModulationPolicy uint8

const (
	// PolicyNever leaves the value untouched. Used for physical structure.
	PolicyNever ModulationPolicy = iota
	// PolicyHealthOnly scales the value by the health fraction.
	PolicyHealthOnly
	// PolicyEnergyGated returns the value unmodified; the consumer gates it on energy.
	PolicyEnergyGated
	// PolicyConsumerApplied returns the value unmodified; the consumer modulates it.
	PolicyConsumerApplied
)

var policyNames = [...]string{
	PolicyNever:           "never",
	PolicyHealthOnly:      "health_only",
	PolicyEnergyGated:     "energy_gated",
	PolicyConsumerApplied: "consumer_applied",
}

func (p ModulationPolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("ModulationPolicy(%d)", uint8(p))
}

// ParseModulationPolicy converts a policy name; unknown names are rejected.
func ParseModulationPolicy(s string) (ModulationPolicy, error) {
	for i, name := range policyNames {
		if name == s {
			return ModulationPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown modulation policy %q", ErrInvalidArgument, s)
}

// GeneLimits bounds a gene's values. Creep is the largest mutation step.
type GeneLimits struct {
	Min   float64
	Max   float64
	Creep float64
}

// Clamp restricts v to [Min, Max].
func (l GeneLimits) Clamp(v float64) float64 {
	if v < l.Min {
		return l.Min
	}
	if v > l.Max {
		return l.Max
	}
	return v
}

// EffectBinding maps a gene's expressed value onto a named trait, which may
// differ from the gene's own id (pleiotropy).
type EffectBinding struct {
	Domain string
	Trait  string
	Type   EffectType
	Scale  float64
}

// GeneDefinition is an immutable catalog entry.
type GeneDefinition struct {
	ID              string
	Category        Category
	Limits          GeneLimits
	Dominance       Dominance
	Effects         []EffectBinding
	MaintenanceCost float64
	CostScaling     float64
	Policy          ModulationPolicy

	// Founder defaults, used when seeding fresh genomes.
	Kind    ValueKind
	Default float64
}

// Bindings returns the effect bindings, substituting a single Direct
// binding onto the gene's own id when none were declared.
func (d *GeneDefinition) Bindings() []EffectBinding {
	if len(d.Effects) > 0 {
		return d.Effects
	}
	return []EffectBinding{{Domain: d.Category.String(), Trait: d.ID, Type: Direct, Scale: 1}}
}

// Validate checks internal consistency of the definition.
func (d *GeneDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: gene definition has empty id", ErrInvalidArgument)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: gene %s has invalid category %d", ErrInvalidArgument, d.ID, d.Category)
	}
	if d.Limits.Min > d.Limits.Max {
		return fmt.Errorf("%w: gene %s has min %g > max %g", ErrInvalidArgument, d.ID, d.Limits.Min, d.Limits.Max)
	}
	if d.Limits.Creep < 0 {
		return fmt.Errorf("%w: gene %s has negative creep", ErrInvalidArgument, d.ID)
	}
	for _, b := range d.Effects {
		if b.Trait == "" {
			return fmt.Errorf("%w: gene %s has binding without target trait", ErrInvalidArgument, d.ID)
		}
	}
	return nil
}

func (d *GeneDefinition) clone() *GeneDefinition {
	c := *d
	c.Effects = append([]EffectBinding(nil), d.Effects...)
	return &c
}

// DefinitionSource resolves gene definitions by id.
type DefinitionSource interface {
	Definition(id string) (*GeneDefinition, bool)
}

// Definitions is a plain map DefinitionSource, handy for tests and tools.
type Definitions map[string]*GeneDefinition

// Definition implements DefinitionSource.
func (m Definitions) Definition(id string) (*GeneDefinition, bool) {
	d, ok := m[id]
	return d, ok
}
