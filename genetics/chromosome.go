package genetics

import (
	"fmt"
	"math/rand"
)

// Chromosome is an ordered group of genes of one category. Gene order
// encodes linkage: neighbours are inherited together unless a crossing-over
// event falls between them.
type Chromosome struct {
	category Category
	genes    []Gene
	index    map[string]int
}

// NewChromosome creates an empty chromosome.
func NewChromosome(category Category) *Chromosome {
	return &Chromosome{
		category: category,
		index:    make(map[string]int),
	}
}

// Category returns the chromosome's category.
func (c *Chromosome) Category() Category { return c.category }

// Len returns the number of genes.
func (c *Chromosome) Len() int { return len(c.genes) }

// add appends a gene. A duplicate id fails with ErrDuplicateID. Callers
// outside the package go through Genome.AddGene, which also keeps ids unique
// across chromosomes.
func (c *Chromosome) add(g Gene) error {
	if _, exists := c.index[g.id]; exists {
		return fmt.Errorf("%w: %s on %s chromosome", ErrDuplicateID, g.id, c.category)
	}
	c.index[g.id] = len(c.genes)
	c.genes = append(c.genes, g)
	return nil
}

// Has reports whether the chromosome carries id.
func (c *Chromosome) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns a copy of the gene with id.
func (c *Chromosome) Get(id string) (Gene, bool) {
	i, ok := c.index[id]
	if !ok {
		return Gene{}, false
	}
	return c.genes[i], true
}

// At returns the gene at position i.
func (c *Chromosome) At(i int) Gene { return c.genes[i] }

// mutableAt returns a pointer into the gene list.
func (c *Chromosome) mutableAt(i int) *Gene { return &c.genes[i] }

// IndexOf returns the linkage position of id.
func (c *Chromosome) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Genes returns a copy of the gene list in linkage order.
func (c *Chromosome) Genes() []Gene {
	out := make([]Gene, len(c.genes))
	copy(out, c.genes)
	return out
}

// IDs returns gene ids in linkage order.
func (c *Chromosome) IDs() []string {
	ids := make([]string, len(c.genes))
	for i, g := range c.genes {
		ids[i] = g.id
	}
	return ids
}

// Clone returns a deep copy.
func (c *Chromosome) Clone() *Chromosome {
	out := &Chromosome{
		category: c.category,
		genes:    make([]Gene, len(c.genes)),
		index:    make(map[string]int, len(c.index)),
	}
	copy(out.genes, c.genes)
	for id, i := range c.index {
		out.index[id] = i
	}
	return out
}

// Mutate mutates every gene that has a definition; genes without one are
// skipped. Gene set and order never change.
func (c *Chromosome) Mutate(rate float64, defs DefinitionSource, rng *rand.Rand) {
	for i := range c.genes {
		def, ok := defs.Definition(c.genes[i].id)
		if !ok {
			continue
		}
		c.genes[i].Mutate(rate, def.Limits, rng)
	}
}

// CrossoverChromosomes recombines two parental chromosomes of the same
// category. The walk starts on a random parent and switches source with
// probability rate before each locus. Loci carried by both parents get an
// allele crossover with the current source in the allele1 slot; loci
// carried by one parent are copied verbatim.
func CrossoverChromosomes(p1, p2 *Chromosome, rate float64, rng *rand.Rand) (*Chromosome, error) {
	if p1 == nil || p2 == nil {
		return nil, fmt.Errorf("%w: cannot crossover nil chromosome", ErrInvalidArgument)
	}
	if p1.category != p2.category {
		return nil, fmt.Errorf("%w: crossover of %s and %s chromosomes", ErrInvalidArgument, p1.category, p2.category)
	}

	// Ordered union: p1 order, then ids only p2 carries
	order := p1.IDs()
	for _, g := range p2.genes {
		if !p1.Has(g.id) {
			order = append(order, g.id)
		}
	}

	child := NewChromosome(p1.category)
	fromFirst := rng.Intn(2) == 0

	for _, id := range order {
		if rng.Float64() < rate {
			fromFirst = !fromFirst
		}

		g1, in1 := p1.Get(id)
		g2, in2 := p2.Get(id)

		var g Gene
		switch {
		case in1 && in2:
			src, other := g1, g2
			if !fromFirst {
				src, other = g2, g1
			}
			var err error
			if g, err = CrossoverGenes(src, other, rng); err != nil {
				return nil, err
			}
		case in1:
			g = g1
		default:
			g = g2
		}

		if err := child.add(g); err != nil {
			return nil, err
		}
	}

	return child, nil
}
