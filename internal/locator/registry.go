package locator

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// BuilderFunc creates a LocatorPhase from generic config.
// Config is a map of phase-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.LocatorPhase, error)

// Registry maps phase names to their builders.
// It allows the pipeline to be assembled from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new phase registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a phase builder to the registry.
// Name should match the phase's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a phase by name with the given config.
// Returns error if the phase name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.LocatorPhase, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown phase: %s", name)
	}
	return builder(cfg)
}

// Has returns true if a phase with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered phase names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
