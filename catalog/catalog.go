// Package catalog holds the built-in gene catalog and builds founder
// genomes from it.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/heredity/genetics"
)

//go:embed genes.yaml
var genesYAML []byte

// file is the on-disk catalog shape. Enum fields stay strings until Parse
// so unknown names are reported with the gene they belong to.
type file struct {
	Genes []geneRecord `yaml:"genes"`
}

type geneRecord struct {
	ID              string         `yaml:"id"`
	Category        string         `yaml:"category"`
	Kind            string         `yaml:"kind"`    // float (default), int, bool
	Default         float64        `yaml:"default"` // founder value; probability of true for bool genes
	Limits          limitsRecord   `yaml:"limits"`
	Dominance       string         `yaml:"dominance"` // defaults to incomplete
	MaintenanceCost float64        `yaml:"maintenance_cost"`
	CostScaling     float64        `yaml:"cost_scaling"`
	Policy          string         `yaml:"policy"` // defaults to never
	Effects         []effectRecord `yaml:"effects"`
}

type limitsRecord struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Creep float64 `yaml:"creep"`
}

type effectRecord struct {
	Domain string  `yaml:"domain"`
	Trait  string  `yaml:"trait"`
	Type   string  `yaml:"type"`
	Scale  float64 `yaml:"scale"`
}

// Parse decodes catalog YAML into gene definitions. Unknown fields and
// unknown enum names are errors.
func Parse(data []byte) ([]genetics.GeneDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing gene catalog: %w", err)
	}

	defs := make([]genetics.GeneDefinition, 0, len(f.Genes))
	for i, rec := range f.Genes {
		def, err := rec.definition()
		if err != nil {
			return nil, fmt.Errorf("gene %d (%s): %w", i, rec.ID, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (r geneRecord) definition() (genetics.GeneDefinition, error) {
	cat, err := genetics.ParseCategory(r.Category)
	if err != nil {
		return genetics.GeneDefinition{}, err
	}

	kind := genetics.KindFloat
	if r.Kind != "" {
		if kind, err = genetics.ParseValueKind(r.Kind); err != nil {
			return genetics.GeneDefinition{}, err
		}
		if kind == genetics.KindString {
			return genetics.GeneDefinition{}, fmt.Errorf("%w: string genes have no numeric founder default", genetics.ErrInvalidArgument)
		}
	}

	dom := genetics.Incomplete
	if r.Dominance != "" {
		if dom, err = genetics.ParseDominance(r.Dominance); err != nil {
			return genetics.GeneDefinition{}, err
		}
	}

	policy := genetics.PolicyNever
	if r.Policy != "" {
		if policy, err = genetics.ParseModulationPolicy(r.Policy); err != nil {
			return genetics.GeneDefinition{}, err
		}
	}

	var effects []genetics.EffectBinding
	for _, e := range r.Effects {
		typ, err := genetics.ParseEffectType(e.Type)
		if err != nil {
			return genetics.GeneDefinition{}, err
		}
		domain := e.Domain
		if domain == "" {
			domain = cat.String()
		}
		effects = append(effects, genetics.EffectBinding{
			Domain: domain,
			Trait:  e.Trait,
			Type:   typ,
			Scale:  e.Scale,
		})
	}

	return genetics.GeneDefinition{
		ID:              r.ID,
		Category:        cat,
		Limits:          genetics.GeneLimits{Min: r.Limits.Min, Max: r.Limits.Max, Creep: r.Limits.Creep},
		Dominance:       dom,
		Effects:         effects,
		MaintenanceCost: r.MaintenanceCost,
		CostScaling:     r.CostScaling,
		Policy:          policy,
		Kind:            kind,
		Default:         r.Default,
	}, nil
}

// Build registers defs into a new registry and seals it.
func Build(defs []genetics.GeneDefinition) (*genetics.Registry, error) {
	reg := genetics.NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

// Load reads a catalog file and returns its sealed registry. An empty
// path loads the built-in catalog.
func Load(path string) (*genetics.Registry, error) {
	data := genesYAML
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading gene catalog: %w", err)
		}
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(defs)
}

var (
	defaultOnce sync.Once
	defaultReg  *genetics.Registry
)

// Default returns the shared built-in registry. It panics if the embedded
// catalog is malformed.
func Default() *genetics.Registry {
	defaultOnce.Do(func() {
		reg, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in catalog: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}
