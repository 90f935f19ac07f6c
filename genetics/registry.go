package genetics

import (
	"fmt"
	"log/slog"
	"sync"
)

// Contribution is one gene's binding onto a trait.
type Contribution struct {
	Definition *GeneDefinition
	Binding    EffectBinding
}

// Registry is the append-only gene catalog. It is built once, optionally
// sealed, and then shared read-only between organisms.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]*GeneDefinition
	order  []string
	traits map[string][]Contribution
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:   make(map[string]*GeneDefinition),
		traits: make(map[string][]Contribution),
	}
}

// Register adds a definition. Duplicate ids fail with ErrDuplicateID.
func (r *Registry) Register(def GeneDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, def.ID)
	}
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
	}

	stored := def
	stored.Effects = append([]EffectBinding(nil), def.Effects...)
	r.defs[def.ID] = &stored
	r.order = append(r.order, def.ID)

	for _, b := range stored.Bindings() {
		r.traits[b.Trait] = append(r.traits[b.Trait], Contribution{Definition: &stored, Binding: b})
	}
	return nil
}

// TryRegister is the soft variant of Register for idempotent
// re-registration: failures are logged and reported as false.
func (r *Registry) TryRegister(def GeneDefinition) bool {
	if err := r.Register(def); err != nil {
		slog.Warn("gene registration skipped", "gene", def.ID, "error", err)
		return false
	}
	return true
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def GeneDefinition) {
	if err := r.Register(def); err != nil {
		panic(fmt.Sprintf("genetics: %v", err))
	}
}

// Seal forbids further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether the registry is read-only.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Definition implements DefinitionSource. The result is a copy; editing it
// does not touch the registry.
func (r *Registry) Definition(id string) (*GeneDefinition, bool) {
	r.mu.RLock()
	d, ok := r.defs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// Policy returns the modulation policy of definition id without copying it.
func (r *Registry) Policy(id string) (ModulationPolicy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	if !ok {
		return PolicyNever, false
	}
	return d.Policy, true
}

// Get returns definition id, or ErrNotFound.
func (r *Registry) Get(id string) (*GeneDefinition, error) {
	d, ok := r.Definition(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s not registered", ErrNotFound, id)
	}
	return d, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[id]
	return ok
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// IDs returns definition ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Definitions returns copies of all definitions in registration order.
func (r *Registry) Definitions() []*GeneDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*GeneDefinition, len(r.order))
	for i, id := range r.order {
		out[i] = r.defs[id].clone()
	}
	return out
}

// ContributorsFor returns every binding targeting trait, in registration
// order. The slice and the definitions it points at are the registry's own
// storage and are read-only; use Definition for an editable copy.
func (r *Registry) ContributorsFor(trait string) []Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.traits[trait]
}

// Traits returns every trait name some binding targets.
func (r *Registry) Traits() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.traits))
	for name := range r.traits {
		out = append(out, name)
	}
	return out
}
