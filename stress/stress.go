// Package stress turns an organism's adaptation traits and its current
// climate into fitness penalties: extra energy drain and health damage.
package stress

import "fmt"

// Severity buckets how far conditions sit outside what an organism tolerates.
type Severity uint8

const (
	Comfortable Severity = iota
	Mild
	Moderate
	Severe
	Lethal
)

func (s Severity) String() string {
	switch s {
	case Comfortable:
		return "Comfortable"
	case Mild:
		return "Mild"
	case Moderate:
		return "Moderate"
	case Severe:
		return "Severe"
	case Lethal:
		return "Lethal"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// RawTraitReader is the slice of a phenotype that adaptation extraction
// needs. Adaptations are read raw so a wounded organism keeps its coat.
type RawTraitReader interface {
	ComputeTraitRaw(trait string) float64
	HasTrait(trait string) bool
}

// bucket maps an excess onto a severity using ascending upper bounds.
func bucket(excess float64, mild, moderate, severe float64) Severity {
	switch {
	case excess <= 0:
		return Comfortable
	case excess <= mild:
		return Mild
	case excess <= moderate:
		return Moderate
	case excess <= severe:
		return Severe
	default:
		return Lethal
	}
}
