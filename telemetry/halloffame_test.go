package telemetry

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/genetics"
)

func testHallConfig() config.HallOfFameConfig {
	return config.HallOfFameConfig{
		Size:             3,
		MinChildren:      2,
		MinSurvivalTicks: 500,
		ChildrenWeight:   1,
		SurvivalWeight:   0.001,
	}
}

func markerGenome(v float64) *genetics.Genome {
	g := genetics.NewGenome()
	g.AddGene(genetics.NewHomozygous("marker", genetics.NewAllele(genetics.Float(v), 1)), genetics.Morphology)
	return g
}

func markerOf(t *testing.T, g *genetics.Genome) float64 {
	t.Helper()
	gene, err := g.GetGene("marker")
	if err != nil {
		t.Fatalf("marker gene: %v", err)
	}
	return gene.Allele1.Value.RawFloat()
}

func TestHallOfFameConsider(t *testing.T) {
	hof := NewHallOfFame(testHallConfig(), 2)

	// Neither enough children nor long enough survival
	if hof.Consider(1, &LifetimeStats{Children: 1}, 100, markerGenome(1)) {
		t.Error("unproven organism should be rejected")
	}
	if hof.Consider(2, nil, 1000, markerGenome(1)) {
		t.Error("nil stats should be rejected")
	}

	for i, children := range []int{2, 5, 3, 4} {
		stats := &LifetimeStats{Lineage: 1, Children: children}
		hof.Consider(uint32(10+i), stats, 100, markerGenome(float64(children)))
	}
	if hof.Size(1) != 3 {
		t.Fatalf("Size(1) = %d, want 3", hof.Size(1))
	}
	if hof.Size(0) != 0 {
		t.Errorf("Size(0) = %d, want 0", hof.Size(0))
	}
	if got := hof.TopFitness(1); math.Abs(got-5.1) > 1e-9 {
		t.Errorf("TopFitness(1) = %v, want 5.1", got)
	}

	// Weaker than the worst entry of a full hall
	if hof.Consider(20, &LifetimeStats{Lineage: 1, Children: 2}, 100, markerGenome(2)) {
		t.Error("entry weaker than a full hall should be rejected")
	}
}

func TestHallOfFameClonesGenomes(t *testing.T) {
	hof := NewHallOfFame(testHallConfig(), 1)
	g := markerGenome(7)
	hof.Consider(1, &LifetimeStats{Children: 3}, 0, g)

	gene, _ := g.GetGeneMutable("marker")
	gene.Allele1.Value = genetics.Float(0)

	rng := rand.New(rand.NewSource(1))
	sampled := hof.Sample(0, rng)
	if markerOf(t, sampled) != 7 {
		t.Error("hall entry changed with the caller's genome")
	}
	gene, _ = sampled.GetGeneMutable("marker")
	gene.Allele1.Value = genetics.Float(0)
	if markerOf(t, hof.Sample(0, rng)) != 7 {
		t.Error("sampled genome shares state with the hall")
	}
}

func TestHallOfFameSampleEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if NewHallOfFame(testHallConfig(), 1).Sample(0, rng) != nil {
		t.Error("empty hall should sample nil")
	}
	var hof *HallOfFame
	if hof.Sample(0, rng) != nil {
		t.Error("nil hall should sample nil")
	}
}

func TestHallOfFameRoundTrip(t *testing.T) {
	cfg := testHallConfig()
	hof := NewHallOfFame(cfg, 2)
	hof.Consider(1, &LifetimeStats{Lineage: 0, Children: 4}, 0, markerGenome(4))
	hof.Consider(2, &LifetimeStats{Lineage: 1, Children: 6}, 0, markerGenome(6))

	om := &OutputManager{dir: t.TempDir()}
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}

	loaded, err := LoadHallOfFameFromFile(filepath.Join(om.Dir(), "hall_of_fame.json"), cfg, 2)
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	if loaded.Size(0) != 1 || loaded.Size(1) != 1 {
		t.Fatalf("sizes = %d, %d", loaded.Size(0), loaded.Size(1))
	}
	if loaded.TopFitness(1) != 6 {
		t.Errorf("TopFitness(1) = %v, want 6", loaded.TopFitness(1))
	}
	if markerOf(t, loaded.Sample(1, rand.New(rand.NewSource(1)))) != 6 {
		t.Error("genome did not survive the round trip")
	}
}

func TestLoadHallOfFameMissing(t *testing.T) {
	if _, err := LoadHallOfFameFromFile(filepath.Join(t.TempDir(), "nope.json"), testHallConfig(), 1); err == nil {
		t.Error("expected error for missing file")
	}
}
