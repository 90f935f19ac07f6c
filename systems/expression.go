package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/heredity/components"
	"github.com/pthm-cable/heredity/phenotype"
)

// ExpressionSystem pushes the current climate and each organism's
// condition into its phenotype, invalidating trait caches that went stale.
type ExpressionSystem struct {
	filter *ecs.Filter3[components.Heredity, components.Vitals, components.Energy]
}

// NewExpressionSystem creates a new expression system.
func NewExpressionSystem(w *ecs.World) *ExpressionSystem {
	return &ExpressionSystem{
		filter: ecs.NewFilter3[components.Heredity, components.Vitals, components.Energy](w),
	}
}

// Update sets env on every living organism. Returns how many phenotypes
// had their context changed.
func (s *ExpressionSystem) Update(env phenotype.EnvironmentState) int {
	changed := 0
	query := s.filter.Query()
	for query.Next() {
		h, v, e := query.Get()
		if !v.Alive {
			continue
		}
		if h.Phenotype.UpdateContext(env, OrganismStateOf(v, e)) {
			changed++
		}
	}
	return changed
}

// OrganismStateOf derives the expression context of one organism.
func OrganismStateOf(v *components.Vitals, e *components.Energy) phenotype.OrganismState {
	return phenotype.OrganismState{
		AgeNormalized: v.AgeNormalized(),
		Health:        v.Health,
		Energy:        e.State.Ratio(),
	}
}
