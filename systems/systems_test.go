package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/catalog"
	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
	"github.com/pthm-cable/heredity/energy"
	"github.com/pthm-cable/heredity/phenotype"
	"github.com/pthm-cable/heredity/stress"
	"github.com/pthm-cable/heredity/telemetry"
	"github.com/pthm-cable/heredity/traits"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// fakeTraits serves fixed trait values for both modulated and raw reads.
type fakeTraits map[string]float64

func (f fakeTraits) GetTrait(t string) float64        { return f[t] }
func (f fakeTraits) ComputeTraitRaw(t string) float64 { return f[t] }
func (f fakeTraits) HasTrait(t string) bool {
	_, ok := f[t]
	return ok
}

type testWorld struct {
	w      *ecs.World
	mapper *ecs.Map4[components.Heredity, components.Vitals, components.Energy, components.Stress]
	rng    *rand.Rand
	nextID uint32
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		w:      w,
		mapper: ecs.NewMap4[components.Heredity, components.Vitals, components.Energy, components.Stress](w),
		rng:    rand.New(rand.NewSource(11)),
	}
}

func (tw *testWorld) spawn(t *testing.T, h components.Heredity, current float64) ecs.Entity {
	t.Helper()
	tw.nextID++
	v := components.Vitals{ID: tw.nextID, LifespanTicks: 1000, AgeTicks: 500, Health: 1, Alive: true}
	e := components.Energy{
		State:     energy.State{Current: current, Max: 100},
		Breakdown: energy.Breakdown{Overhead: 1, SpecialistBonus: 1},
	}
	st := components.Stress{}
	return tw.mapper.NewEntity(&h, &v, &e, &st)
}

// get looks components up again; pointers do not survive later spawns.
func (tw *testWorld) get(entity ecs.Entity) (*components.Vitals, *components.Energy) {
	_, v, e, _ := tw.mapper.Get(entity)
	return v, e
}

func founder(t *testing.T, seed int64) components.Heredity {
	t.Helper()
	reg := catalog.Default()
	g, err := catalog.NewFounder(reg, 0, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	return components.NewHeredity(g, reg)
}

func TestOrganismStateOf(t *testing.T) {
	v := components.Vitals{AgeTicks: 25, LifespanTicks: 100, Health: 0.8}
	e := components.Energy{State: energy.State{Current: 30, Max: 60}}
	got := OrganismStateOf(&v, &e)
	want := phenotype.OrganismState{AgeNormalized: 0.25, Health: 0.8, Energy: 0.5}
	if got != want {
		t.Errorf("OrganismStateOf = %+v, want %+v", got, want)
	}
}

func TestExpressionSystemReportsChanges(t *testing.T) {
	tw := newTestWorld()
	tw.spawn(t, founder(t, 1), 80)
	tw.spawn(t, founder(t, 2), 80)
	sys := NewExpressionSystem(tw.w)

	env := phenotype.EnvironmentState{Temperature: 5, Humidity: 0.4, Moisture: 0.3}
	if n := sys.Update(env); n != 2 {
		t.Errorf("first update changed %d, want 2", n)
	}
	if n := sys.Update(env); n != 0 {
		t.Errorf("repeat update changed %d, want 0", n)
	}
}

func TestApplyStress(t *testing.T) {
	cfg := config.StressConfig{ToleranceLow: 10, ToleranceHigh: 30}
	p := fakeTraits{}

	tests := []struct {
		name       string
		env        phenotype.EnvironmentState
		wantHealth float64
		wantSev    stress.Severity
	}{
		{"comfortable", phenotype.EnvironmentState{Temperature: 20, Moisture: 0.5}, 1, stress.Comfortable},
		{"hot", phenotype.EnvironmentState{Temperature: 50, Moisture: 0.5}, 1 - 0.00375, stress.Severe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := components.Vitals{Health: 1, Alive: true}
			var st components.Stress
			ApplyStress(p, &v, &st, tt.env, cfg)
			if !approx(v.Health, tt.wantHealth) {
				t.Errorf("health = %v, want %v", v.Health, tt.wantHealth)
			}
			if st.Thermal.Severity != tt.wantSev {
				t.Errorf("severity = %v, want %v", st.Thermal.Severity, tt.wantSev)
			}
			if !approx(v.ExposureDamage, 1-tt.wantHealth) {
				t.Errorf("exposure damage = %v, want %v", v.ExposureDamage, 1-tt.wantHealth)
			}
		})
	}
}

func TestApplyMetabolismUpkeep(t *testing.T) {
	cfg := config.EnergyConfig{BaseMetabolism: 1, StarvationThreshold: 0.1, StarvationDamage: 0.05}
	p := fakeTraits{traits.MetabolismRate: 0.5}
	v := components.Vitals{Health: 1, Alive: true}
	e := components.Energy{
		State:     energy.State{Current: 10, Max: 20},
		Breakdown: energy.Breakdown{Maintenance: 0.5, Overhead: 1, SpecialistBonus: 1},
	}
	var st components.Stress

	if ApplyMetabolism(p, &v, &e, &st, cfg) {
		t.Error("should not be starving")
	}
	if !approx(e.State.Current, 8.5) {
		t.Errorf("energy = %v, want 8.5", e.State.Current)
	}
	if !approx(e.Spent, 1.5) {
		t.Errorf("spent = %v, want 1.5", e.Spent)
	}
}

func TestApplyMetabolismStressDrainAndIncome(t *testing.T) {
	cfg := config.EnergyConfig{BaseMetabolism: 1, ForageIncome: 2}
	p := fakeTraits{traits.MetabolismRate: 0.5, traits.PlantDigestion: 0.8, traits.MeatDigestion: 0.1}
	v := components.Vitals{Health: 1, Alive: true}
	e := components.Energy{
		State:     energy.State{Current: 10, Max: 20},
		Breakdown: energy.Breakdown{Overhead: 1, SpecialistBonus: 1.21},
	}
	st := components.Stress{}
	st.Thermal.EnergyDrainMultiplier = 2

	ApplyMetabolism(p, &v, &e, &st, cfg)
	if !approx(e.Income, 2*0.8*1.21) {
		t.Errorf("income = %v, want %v", e.Income, 2*0.8*1.21)
	}
	if !approx(e.State.BaseMetabolism, 2) {
		t.Errorf("base metabolism = %v, want 2 under double drain", e.State.BaseMetabolism)
	}
}

func TestMetabolismSystemRefreshesBreakdownWithAge(t *testing.T) {
	tw := newTestWorld()
	h := founder(t, 3)
	entity := tw.spawn(t, h, 80)
	_, e := tw.get(entity)
	e.Breakdown.Maintenance = 0.4

	budget := energy.NewBudget(h.Phenotype.Registry())
	expr := NewExpressionSystem(tw.w)
	sys := NewMetabolismSystem(tw.w, budget, config.EnergyConfig{BaseMetabolism: 1, ForageIncome: 1})
	env := phenotype.EnvironmentState{Temperature: 20, Moisture: 0.5}

	tests := []struct {
		name string
		age  int32
	}{
		{"juvenile", 10},
		{"adult", 500},
		{"elderly", 950},
	}
	var juvenile, adult float64
	for _, tt := range tests {
		v, _ := tw.get(entity)
		v.AgeTicks = tt.age
		expr.Update(env)
		sys.Update()

		_, e := tw.get(entity)
		if want := budget.CalculateSpecialistBonus(h.Phenotype); math.Abs(e.Breakdown.SpecialistBonus-want) > 1e-9 {
			t.Errorf("%s: specialist bonus %v, want %v", tt.name, e.Breakdown.SpecialistBonus, want)
		}
		if want := budget.CalculateMetabolicOverhead(h.Phenotype); math.Abs(e.Breakdown.Overhead-want) > 1e-9 {
			t.Errorf("%s: overhead %v, want %v", tt.name, e.Breakdown.Overhead, want)
		}
		if e.Breakdown.Maintenance != 0.4 {
			t.Errorf("%s: maintenance should stay cached, got %v", tt.name, e.Breakdown.Maintenance)
		}
		switch tt.name {
		case "juvenile":
			juvenile = e.Breakdown.SpecialistBonus
		case "adult":
			adult = e.Breakdown.SpecialistBonus
		}
	}

	// Juvenile digestion runs at 60 % of adult, so the gap shrinks with it
	if math.Abs((juvenile-1)-0.6*(adult-1)) > 1e-9 {
		t.Errorf("juvenile bonus %v does not track adult bonus %v", juvenile, adult)
	}
}

func TestApplyMetabolismStarvation(t *testing.T) {
	cfg := config.EnergyConfig{BaseMetabolism: 1, StarvationThreshold: 0.1, StarvationDamage: 0.05}
	p := fakeTraits{traits.MetabolismRate: 0.5}
	v := components.Vitals{Health: 1, Alive: true}
	e := components.Energy{
		State:     energy.State{Current: 2, Max: 20},
		Breakdown: energy.Breakdown{Overhead: 1},
	}
	var st components.Stress

	if !ApplyMetabolism(p, &v, &e, &st, cfg) {
		t.Fatal("expected starving")
	}
	if !approx(v.Health, 0.95) || !approx(v.StarvationDamage, 0.05) {
		t.Errorf("health = %v, starvation damage = %v", v.Health, v.StarvationDamage)
	}
}

func TestAge(t *testing.T) {
	cfg := config.LifecycleConfig{HealthRegen: 0.1}
	tests := []struct {
		name      string
		v         components.Vitals
		wantDead  bool
		wantCause components.DeathCause
	}{
		{"alive", components.Vitals{AgeTicks: 5, LifespanTicks: 10, Health: 0.5}, false, components.CauseNone},
		{"old age", components.Vitals{AgeTicks: 9, LifespanTicks: 10, Health: 1}, true, components.CauseOldAge},
		{"starved", components.Vitals{AgeTicks: 1, LifespanTicks: 10, Health: 0, StarvationDamage: 0.1}, true, components.CauseStarvation},
		{"exposure", components.Vitals{AgeTicks: 1, LifespanTicks: 10, Health: 0, ExposureDamage: 0.2, StarvationDamage: 0.1}, true, components.CauseExposure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.v
			v.Alive = true
			if got := Age(&v, cfg); got != tt.wantDead {
				t.Errorf("Age() = %v, want %v", got, tt.wantDead)
			}
			if v.Cause != tt.wantCause {
				t.Errorf("cause = %v, want %v", v.Cause, tt.wantCause)
			}
			if v.Alive == tt.wantDead {
				t.Errorf("alive = %v, want %v", v.Alive, !tt.wantDead)
			}
		})
	}
}

func TestAgeRegeneratesAndCoolsDown(t *testing.T) {
	v := components.Vitals{LifespanTicks: 10, Health: 0.95, BreedCooldown: 2, Alive: true}
	Age(&v, config.LifecycleConfig{HealthRegen: 0.1})
	if v.Health != 1 {
		t.Errorf("health = %v, want capped at 1", v.Health)
	}
	if v.BreedCooldown != 1 || v.AgeTicks != 1 {
		t.Errorf("cooldown = %d, age = %d", v.BreedCooldown, v.AgeTicks)
	}

	v = components.Vitals{LifespanTicks: 10, Health: 0.5, ExposureDamage: 0.01, Alive: true}
	Age(&v, config.LifecycleConfig{HealthRegen: 0.1})
	if v.Health != 0.5 {
		t.Errorf("damaged organism regenerated to %v", v.Health)
	}
}

func breedingConfig(budding bool) config.ReproductionConfig {
	return config.ReproductionConfig{
		RecombinationRate: 0.5,
		MaturityAge:       0.2,
		Cost:              10,
		CompatThreshold:   0.6,
		CooldownTicks:     30,
		MaxMateAttempts:   16,
		Budding:           budding,
	}
}

func TestBreedingBudding(t *testing.T) {
	tw := newTestWorld()
	parent := founder(t, 3)
	v, e := tw.get(tw.spawn(t, parent, 100))
	sys := NewBreedingSystem(tw.w, breedingConfig(true), 0.1, catalog.Default(), tw.rng)

	var births []Birth
	for i := 0; i < 100 && len(births) == 0; i++ {
		births = sys.Update(10)
	}
	if len(births) != 1 {
		t.Fatalf("births = %d, want 1", len(births))
	}
	b := births[0]
	if b.Sexual || b.Parents != [2]uint32{v.ID, 0} || b.Generation != 1 {
		t.Errorf("unexpected birth %+v", b)
	}
	if b.Heredity.Genome == parent.Genome || b.Heredity.Phenotype == parent.Phenotype {
		t.Error("bud shares genome or phenotype with parent")
	}
	if e.State.Current != 80 {
		t.Errorf("parent energy = %v, want 80", e.State.Current)
	}
	if v.BreedCooldown != 30 {
		t.Errorf("cooldown = %d, want 30", v.BreedCooldown)
	}
	if got := sys.Update(10); len(got) != 0 {
		t.Errorf("parent on cooldown bred again: %d births", len(got))
	}
}

func TestBreedingSexual(t *testing.T) {
	tw := newTestWorld()
	a := founder(t, 4)
	b := founder(t, 4)
	ida := tw.spawn(t, a, 100)
	idb := tw.spawn(t, b, 100)
	va, ea := tw.get(ida)
	vb, eb := tw.get(idb)
	sys := NewBreedingSystem(tw.w, breedingConfig(false), 0, catalog.Default(), tw.rng)

	var births []Birth
	for i := 0; i < 200 && len(births) == 0; i++ {
		births = sys.Update(1)
	}
	if len(births) != 1 {
		t.Fatalf("births = %d, want 1 (room limit)", len(births))
	}
	got := births[0]
	if !got.Sexual || got.Generation != 1 {
		t.Errorf("unexpected birth %+v", got)
	}
	if got.Parents != [2]uint32{va.ID, vb.ID} && got.Parents != [2]uint32{vb.ID, va.ID} {
		t.Errorf("parents = %v", got.Parents)
	}
	// Identical parents and no mutation reproduce the parental genome.
	if sim := got.Heredity.Genome.Compare(a.Genome); !approx(sim, 1) {
		t.Errorf("child similarity = %v, want 1", sim)
	}
	if ea.State.Current != 90 || eb.State.Current != 90 {
		t.Errorf("parent energy = %v, %v; want 90 each", ea.State.Current, eb.State.Current)
	}
}

func TestBreedingRespectsRoomAndMaturity(t *testing.T) {
	tw := newTestWorld()
	v, _ := tw.get(tw.spawn(t, founder(t, 5), 100))
	v.AgeTicks = 0
	sys := NewBreedingSystem(tw.w, breedingConfig(true), 0, catalog.Default(), tw.rng)

	for i := 0; i < 50; i++ {
		if got := sys.Update(10); len(got) != 0 {
			t.Fatalf("juvenile bred: %d births", len(got))
		}
	}
	v.AgeTicks = 500
	if got := sys.Update(0); got != nil {
		t.Errorf("no room should yield no births, got %d", len(got))
	}
}

func TestSystemRegistry(t *testing.T) {
	r := NewSystemRegistry()
	ids := r.IDs()
	if len(ids) != 7 || ids[0] != telemetry.PhaseExpression || ids[len(ids)-1] != telemetry.PhaseTelemetry {
		t.Errorf("IDs = %v", ids)
	}
	if r.GetName(telemetry.PhaseBreeding) != "Breeding" {
		t.Errorf("GetName(breeding) = %q", r.GetName(telemetry.PhaseBreeding))
	}
	if r.GetName("nope") != "nope" {
		t.Error("unknown id should fall back to itself")
	}

	r.Register(SystemInfo{ID: telemetry.PhaseAging, Name: "Senescence"})
	r.Register(SystemInfo{ID: "migration", Name: "Migration"})
	ids = r.IDs()
	if len(ids) != 8 || ids[3] != telemetry.PhaseAging || ids[7] != "migration" {
		t.Errorf("IDs after Register = %v", ids)
	}
	if r.GetName(telemetry.PhaseAging) != "Senescence" {
		t.Error("Register should replace an existing phase in place")
	}
}
