package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/config"
)

// AgingSystem advances age and cooldowns, regenerates health and marks
// deaths.
type AgingSystem struct {
	filter *ecs.Filter1[components.Vitals]
	cfg    config.LifecycleConfig
}

// NewAgingSystem creates a new aging system.
func NewAgingSystem(w *ecs.World, cfg config.LifecycleConfig) *AgingSystem {
	return &AgingSystem{
		filter: ecs.NewFilter1[components.Vitals](w),
		cfg:    cfg,
	}
}

// Update ages all living organisms. Returns the number that died.
func (s *AgingSystem) Update() int {
	died := 0
	query := s.filter.Query()
	for query.Next() {
		v := query.Get()
		if !v.Alive {
			continue
		}
		if Age(v, s.cfg) {
			died++
		}
	}
	return died
}

// Age advances one tick of life. Undamaged organisms regenerate health.
// Returns true when the organism dies this tick.
func Age(v *components.Vitals, cfg config.LifecycleConfig) bool {
	v.AgeTicks++
	if v.BreedCooldown > 0 {
		v.BreedCooldown--
	}

	if v.StarvationDamage == 0 && v.ExposureDamage == 0 {
		v.Health = math.Min(1, v.Health+cfg.HealthRegen)
	}

	switch {
	case v.Health <= 0:
		v.Cause = components.CauseExposure
		if v.StarvationDamage >= v.ExposureDamage {
			v.Cause = components.CauseStarvation
		}
	case v.AgeTicks >= v.LifespanTicks:
		v.Cause = components.CauseOldAge
	default:
		return false
	}
	v.Alive = false
	return true
}
