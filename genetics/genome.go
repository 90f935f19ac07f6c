package genetics

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// DefaultRecombinationRate is the recombination probability used when the
// caller has no linkage preference.
const DefaultRecombinationRate = 0.5

// location addresses a gene inside a genome.
type location struct {
	category Category
	index    int
}

// Genome is a full diploid gene set: one chromosome per category plus a
// lazily rebuilt id lookup. Structural changes (adding genes, replacing
// chromosomes) invalidate the lookup; value mutations do not.
type Genome struct {
	chromosomes [NumCategories]*Chromosome

	index      map[string]location
	indexValid bool
}

// NewGenome creates a genome with empty chromosomes.
func NewGenome() *Genome {
	g := &Genome{}
	for i := range g.chromosomes {
		g.chromosomes[i] = NewChromosome(Category(i))
	}
	return g
}

// Chromosome returns the chromosome for category c. Its gene set can only
// change through the genome.
func (g *Genome) Chromosome(c Category) *Chromosome {
	return g.chromosomes[c]
}

// SetChromosome replaces the chromosome of its category. An id already
// carried by another chromosome fails with ErrDuplicateID.
func (g *Genome) SetChromosome(c *Chromosome) error {
	if c == nil || !c.category.Valid() {
		return fmt.Errorf("%w: invalid chromosome", ErrInvalidArgument)
	}
	for ci, other := range g.chromosomes {
		if Category(ci) == c.category {
			continue
		}
		for _, gene := range c.genes {
			if other.Has(gene.id) {
				return fmt.Errorf("%w: %s already on %s chromosome", ErrDuplicateID, gene.id, other.category)
			}
		}
	}
	g.chromosomes[c.category] = c
	g.InvalidateIndex()
	return nil
}

// AddGene inserts gene into the chromosome of category. Ids are unique
// across the whole genome.
func (g *Genome) AddGene(gene Gene, category Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: invalid category %d", ErrInvalidArgument, category)
	}
	if g.HasGene(gene.id) {
		return fmt.Errorf("%w: %s already in genome", ErrDuplicateID, gene.id)
	}
	if err := g.chromosomes[category].add(gene); err != nil {
		return err
	}
	g.InvalidateIndex()
	return nil
}

// InvalidateIndex drops the id lookup; it is rebuilt on next access.
func (g *Genome) InvalidateIndex() {
	g.indexValid = false
}

// IndexValid reports whether the id lookup is current.
func (g *Genome) IndexValid() bool { return g.indexValid }

func (g *Genome) ensureIndex() {
	if g.indexValid {
		return
	}
	if g.index == nil {
		g.index = make(map[string]location)
	} else {
		clear(g.index)
	}
	for ci, c := range g.chromosomes {
		for i, gene := range c.genes {
			g.index[gene.id] = location{category: Category(ci), index: i}
		}
	}
	g.indexValid = true
}

// HasGene reports whether the genome carries id.
func (g *Genome) HasGene(id string) bool {
	g.ensureIndex()
	_, ok := g.index[id]
	return ok
}

// GetGene returns a copy of gene id, or ErrNotFound.
func (g *Genome) GetGene(id string) (Gene, error) {
	gene, ok := g.TryGetGene(id)
	if !ok {
		return Gene{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return gene, nil
}

// TryGetGene returns a copy of gene id and whether it exists.
func (g *Genome) TryGetGene(id string) (Gene, bool) {
	g.ensureIndex()
	loc, ok := g.index[id]
	if !ok {
		return Gene{}, false
	}
	return g.chromosomes[loc.category].At(loc.index), true
}

// GetGeneMutable returns a pointer to gene id for in-place edits, or
// ErrNotFound. The pointer is valid until the next structural change.
func (g *Genome) GetGeneMutable(id string) (*Gene, error) {
	g.ensureIndex()
	loc, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g.chromosomes[loc.category].mutableAt(loc.index), nil
}

// CategoryOf returns the chromosome carrying id.
func (g *Genome) CategoryOf(id string) (Category, bool) {
	g.ensureIndex()
	loc, ok := g.index[id]
	return loc.category, ok
}

// Len returns the total gene count.
func (g *Genome) Len() int {
	n := 0
	for _, c := range g.chromosomes {
		n += c.Len()
	}
	return n
}

// GeneIDs returns all ids in chromosome then linkage order.
func (g *Genome) GeneIDs() []string {
	ids := make([]string, 0, g.Len())
	for _, c := range g.chromosomes {
		ids = append(ids, c.IDs()...)
	}
	return ids
}

// Genes calls fn for every gene in chromosome then linkage order.
func (g *Genome) Genes(fn func(Category, Gene)) {
	for ci, c := range g.chromosomes {
		for _, gene := range c.genes {
			fn(Category(ci), gene)
		}
	}
}

// Clone returns a deep copy. The copy's lookup starts invalid.
func (g *Genome) Clone() *Genome {
	out := &Genome{}
	for i, c := range g.chromosomes {
		out.chromosomes[i] = c.Clone()
	}
	return out
}

// Mutate mutates every chromosome in place. Genes are never added or
// removed, so the id lookup stays valid.
func (g *Genome) Mutate(rate float64, defs DefinitionSource, rng *rand.Rand) {
	for _, c := range g.chromosomes {
		c.Mutate(rate, defs, rng)
	}
}

// Crossover builds a child genome chromosome by chromosome.
func Crossover(p1, p2 *Genome, rate float64, rng *rand.Rand) (*Genome, error) {
	if p1 == nil || p2 == nil {
		return nil, fmt.Errorf("%w: cannot crossover nil genome", ErrInvalidArgument)
	}
	child := &Genome{}
	for i := range child.chromosomes {
		c, err := CrossoverChromosomes(p1.chromosomes[i], p2.chromosomes[i], rate, rng)
		if err != nil {
			return nil, fmt.Errorf("crossover %s: %w", Category(i), err)
		}
		child.chromosomes[i] = c
	}
	return child, nil
}

// Compare returns a similarity in [0, 1] over the union of gene ids. Genes
// present in both genomes score 1 - |v1-v2| / (2*max(|v1|,|v2|)) on their
// incomplete-dominance values; genes present in one genome score 0. Two
// empty genomes are identical.
func (g *Genome) Compare(other *Genome) float64 {
	scores := make([]float64, 0, g.Len()+other.Len())

	for _, c := range g.chromosomes {
		for _, gene := range c.genes {
			og, ok := other.TryGetGene(gene.id)
			if !ok {
				scores = append(scores, 0)
				continue
			}
			scores = append(scores, geneSimilarity(gene, og))
		}
	}
	for _, c := range other.chromosomes {
		for _, gene := range c.genes {
			if !g.HasGene(gene.id) {
				scores = append(scores, 0)
			}
		}
	}

	if len(scores) == 0 {
		return 1.0
	}
	return stat.Mean(scores, nil)
}

func geneSimilarity(a, b Gene) float64 {
	v1, err1 := a.NumericValue(Incomplete)
	v2, err2 := b.NumericValue(Incomplete)
	if err1 != nil || err2 != nil {
		if a.ExpressedValue(Incomplete).Equal(b.ExpressedValue(Incomplete)) {
			return 1
		}
		return 0
	}
	denom := 2 * math.Max(math.Abs(v1), math.Abs(v2))
	if denom == 0 {
		return 1
	}
	return 1 - math.Abs(v1-v2)/denom
}
