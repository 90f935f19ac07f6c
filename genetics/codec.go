package genetics

import (
	"encoding/json"
	"fmt"
)

// valueRecord is the persisted form of a Value.
type valueRecord struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// geneRecord is the persisted form of a Gene.
type geneRecord struct {
	ID        string      `json:"id"`
	Value1    valueRecord `json:"value1"`
	Strength1 float64     `json:"strength1"`
	Value2    valueRecord `json:"value2"`
	Strength2 float64     `json:"strength2"`
}

// chromosomeRecord is the persisted form of a Chromosome.
type chromosomeRecord struct {
	Category string       `json:"category"`
	Genes    []geneRecord `json:"genes"`
}

// genomeRecord is the persisted form of a Genome.
type genomeRecord struct {
	Chromosomes []chromosomeRecord `json:"chromosomes"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	rec, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var rec valueRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	out, err := decodeValue(rec)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func encodeValue(v Value) (valueRecord, error) {
	var payload any
	switch v.kind {
	case KindFloat:
		payload = v.f
	case KindInt:
		payload = v.i
	case KindBool:
		payload = v.b
	case KindString:
		payload = v.s
	default:
		return valueRecord{}, fmt.Errorf("%w: unknown value kind %d", ErrInvalidArgument, v.kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return valueRecord{}, fmt.Errorf("encoding %s value: %w", v.kind, err)
	}
	return valueRecord{Type: v.kind.String(), Value: raw}, nil
}

func decodeValue(rec valueRecord) (Value, error) {
	kind, err := ParseValueKind(rec.Type)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case KindFloat:
		var f float64
		if err := json.Unmarshal(rec.Value, &f); err != nil {
			return Value{}, fmt.Errorf("decoding float value: %w", err)
		}
		return Float(f), nil
	case KindInt:
		var i int64
		if err := json.Unmarshal(rec.Value, &i); err != nil {
			return Value{}, fmt.Errorf("decoding int value: %w", err)
		}
		return Int(i), nil
	case KindBool:
		var b bool
		if err := json.Unmarshal(rec.Value, &b); err != nil {
			return Value{}, fmt.Errorf("decoding bool value: %w", err)
		}
		return Bool(b), nil
	default:
		var s string
		if err := json.Unmarshal(rec.Value, &s); err != nil {
			return Value{}, fmt.Errorf("decoding string value: %w", err)
		}
		return String(s), nil
	}
}

func (g Gene) record() (geneRecord, error) {
	v1, err := encodeValue(g.Allele1.Value)
	if err != nil {
		return geneRecord{}, fmt.Errorf("gene %s: %w", g.id, err)
	}
	v2, err := encodeValue(g.Allele2.Value)
	if err != nil {
		return geneRecord{}, fmt.Errorf("gene %s: %w", g.id, err)
	}
	return geneRecord{
		ID:        g.id,
		Value1:    v1,
		Strength1: g.Allele1.Strength,
		Value2:    v2,
		Strength2: g.Allele2.Strength,
	}, nil
}

func geneFromRecord(rec geneRecord) (Gene, error) {
	if rec.ID == "" {
		return Gene{}, fmt.Errorf("%w: gene record without id", ErrInvalidArgument)
	}
	v1, err := decodeValue(rec.Value1)
	if err != nil {
		return Gene{}, fmt.Errorf("gene %s value1: %w", rec.ID, err)
	}
	v2, err := decodeValue(rec.Value2)
	if err != nil {
		return Gene{}, fmt.Errorf("gene %s value2: %w", rec.ID, err)
	}
	return NewGene(rec.ID, NewAllele(v1, rec.Strength1), NewAllele(v2, rec.Strength2)), nil
}

// MarshalJSON implements json.Marshaler.
func (g Gene) MarshalJSON() ([]byte, error) {
	rec, err := g.record()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Gene) UnmarshalJSON(data []byte) error {
	var rec geneRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	out, err := geneFromRecord(rec)
	if err != nil {
		return err
	}
	*g = out
	return nil
}

func (c *Chromosome) record() (chromosomeRecord, error) {
	rec := chromosomeRecord{
		Category: c.category.String(),
		Genes:    make([]geneRecord, 0, len(c.genes)),
	}
	for _, g := range c.genes {
		gr, err := g.record()
		if err != nil {
			return chromosomeRecord{}, err
		}
		rec.Genes = append(rec.Genes, gr)
	}
	return rec, nil
}

func chromosomeFromRecord(rec chromosomeRecord) (*Chromosome, error) {
	cat, err := ParseCategory(rec.Category)
	if err != nil {
		return nil, err
	}
	c := NewChromosome(cat)
	for _, gr := range rec.Genes {
		g, err := geneFromRecord(gr)
		if err != nil {
			return nil, err
		}
		if err := c.add(g); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Chromosome) MarshalJSON() ([]byte, error) {
	rec, err := c.record()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Chromosome) UnmarshalJSON(data []byte) error {
	var rec chromosomeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	out, err := chromosomeFromRecord(rec)
	if err != nil {
		return err
	}
	*c = *out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g *Genome) MarshalJSON() ([]byte, error) {
	rec := genomeRecord{Chromosomes: make([]chromosomeRecord, 0, NumCategories)}
	for _, c := range g.chromosomes {
		cr, err := c.record()
		if err != nil {
			return nil, err
		}
		rec.Chromosomes = append(rec.Chromosomes, cr)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. Chromosomes missing from the
// record decode as empty; genome-wide id uniqueness is enforced.
func (g *Genome) UnmarshalJSON(data []byte) error {
	var rec genomeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	out := NewGenome()
	seen := make(map[Category]bool, NumCategories)
	for _, cr := range rec.Chromosomes {
		c, err := chromosomeFromRecord(cr)
		if err != nil {
			return err
		}
		if seen[c.category] {
			return fmt.Errorf("%w: chromosome %s appears twice", ErrInvalidArgument, c.category)
		}
		seen[c.category] = true
		for _, gene := range c.genes {
			if err := out.AddGene(gene, c.category); err != nil {
				return err
			}
		}
	}
	*g = *out
	return nil
}
