package components

import (
	"github.com/pthm-cable/heredity/genetics"
	"github.com/pthm-cable/heredity/phenotype"
)

// Heredity owns one organism's genome and the phenotype bound to it.
// A phenotype must never be shared between entities.
type Heredity struct {
	Genome    *genetics.Genome
	Phenotype *phenotype.Phenotype
}

// NewHeredity binds a fresh phenotype to genome.
func NewHeredity(genome *genetics.Genome, reg *genetics.Registry) Heredity {
	return Heredity{Genome: genome, Phenotype: phenotype.New(genome, reg)}
}

// Clone deep-copies the genome and binds a new phenotype to the copy,
// carrying over the current context so the clone starts with the same
// environment.
func (h Heredity) Clone() Heredity {
	g := h.Genome.Clone()
	p := phenotype.New(g, h.Phenotype.Registry())
	p.UpdateContext(h.Phenotype.Environment(), h.Phenotype.Organism())
	return Heredity{Genome: g, Phenotype: p}
}
