package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reproduction.RecombinationRate != 0.5 {
		t.Errorf("recombination_rate = %v, want 0.5", cfg.Reproduction.RecombinationRate)
	}
	if cfg.Energy.StarvationThreshold != 0.1 {
		t.Errorf("starvation_threshold = %v, want 0.1", cfg.Energy.StarvationThreshold)
	}
	if cfg.Derived.FounderCount != 60 {
		t.Errorf("founder count = %d, want 60", cfg.Derived.FounderCount)
	}
	if idx, ok := cfg.Derived.ArchetypeIndex["hunter"]; !ok || idx != 2 {
		t.Errorf("hunter index = %d, %v; want 2, true", idx, ok)
	}
	want := 2 * math.Pi / 400
	if math.Abs(cfg.Derived.SeasonStep-want) > 1e-12 {
		t.Errorf("season step = %v, want %v", cfg.Derived.SeasonStep, want)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, "mutation:\n  rate: 0.2\nclimate:\n  mode: constant\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mutation.Rate != 0.2 {
		t.Errorf("mutation rate = %v, want 0.2", cfg.Mutation.Rate)
	}
	if cfg.Climate.Mode != "constant" {
		t.Errorf("climate mode = %q, want constant", cfg.Climate.Mode)
	}
	// Untouched keys keep their defaults.
	if cfg.Energy.Max != 100 {
		t.Errorf("energy max = %v, want 100", cfg.Energy.Max)
	}
}

func TestLoadEmptyArchetypesUsesInitial(t *testing.T) {
	path := writeFile(t, "population:\n  initial: 12\narchetypes: []\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Archetypes) != 1 || cfg.Archetypes[0].Name != "founder" {
		t.Fatalf("archetypes = %+v, want single founder lineage", cfg.Archetypes)
	}
	if cfg.Derived.FounderCount != 12 {
		t.Errorf("founder count = %d, want 12", cfg.Derived.FounderCount)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"climate mode", "climate:\n  mode: volcanic\n"},
		{"recombination", "reproduction:\n  recombination_rate: 1.5\n"},
		{"mutation", "mutation:\n  rate: -0.1\n"},
		{"energy", "energy:\n  max: 0\n"},
		{"lifespan", "lifecycle:\n  max_lifespan_ticks: 0\n"},
		{"yaml", "energy: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if again.Reproduction != cfg.Reproduction || again.Climate != cfg.Climate {
		t.Error("round trip changed config")
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() should panic before Init")
		}
	}()
	Cfg()
}

func TestInit(t *testing.T) {
	saved := global
	defer func() { global = saved }()
	MustInit("")
	if Cfg().World.Seed != 42 {
		t.Errorf("seed = %d, want 42", Cfg().World.Seed)
	}
}
