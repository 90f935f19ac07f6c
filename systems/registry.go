package systems

import "github.com/pthm-cable/heredity/telemetry"

// SystemInfo describes one phase of the tick.
type SystemInfo struct {
	ID     string   // Telemetry phase id
	Name   string   // Display name used in logs
	Writes []string // Components the phase mutates
}

// SystemRegistry lists the tick phases in run order, keeping log names and
// perf phase ids together.
type SystemRegistry struct {
	order []SystemInfo
}

// NewSystemRegistry returns the phases of one world tick.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{order: []SystemInfo{
		{ID: telemetry.PhaseExpression, Name: "Expression", Writes: []string{"Heredity"}},
		{ID: telemetry.PhaseStress, Name: "Stress", Writes: []string{"Stress", "Vitals"}},
		{ID: telemetry.PhaseMetabolism, Name: "Metabolism", Writes: []string{"Energy", "Vitals"}},
		{ID: telemetry.PhaseAging, Name: "Aging", Writes: []string{"Vitals"}},
		{ID: telemetry.PhaseBreeding, Name: "Breeding", Writes: []string{"Energy", "Vitals"}},
		{ID: telemetry.PhaseCleanup, Name: "Cleanup"},
		{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Writes: []string{"Energy"}},
	}}
}

// Register appends a phase, replacing any phase with the same id in place.
func (r *SystemRegistry) Register(info SystemInfo) {
	for i := range r.order {
		if r.order[i].ID == info.ID {
			r.order[i] = info
			return
		}
	}
	r.order = append(r.order, info)
}

// Get returns the phase with id.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	for _, info := range r.order {
		if info.ID == id {
			return info, true
		}
	}
	return SystemInfo{}, false
}

// GetName returns the display name for id, or id itself if unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// IDs returns phase ids in run order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.order))
	for i, info := range r.order {
		ids[i] = info.ID
	}
	return ids
}
