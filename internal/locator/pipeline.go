// Package locator runs the phased term locator over a document's page text.
package locator

import (
	"context"
	"fmt"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// Verify interface compliance.
var _ driven.LocatorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple LocatorPhases and runs them in order.
// Every phase sees the full rule set; rules found by an earlier phase
// are left alone by the later ones.
type Pipeline struct {
	phases []driven.LocatorPhase
	log    *logger.Logger
}

// NewPipeline creates a new locator pipeline with the given phases.
// Phases are executed in the order provided.
func NewPipeline(phases ...driven.LocatorPhase) *Pipeline {
	return &Pipeline{
		phases: phases,
	}
}

// WithLogger sets the logger used for per-phase progress.
func (p *Pipeline) WithLogger(log *logger.Logger) *Pipeline {
	p.log = log
	return p
}

// Run applies every phase to rules in place.
// It returns the indexes each phase changed, keyed by phase name.
func (p *Pipeline) Run(ctx context.Context, pages []string, rules []domain.Rule) (map[string][]int, error) {
	changed := make(map[string][]int, len(p.phases))

	for _, phase := range p.phases {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		idx, err := phase.Apply(ctx, pages, rules)
		if err != nil {
			return changed, fmt.Errorf("phase %s: %w", phase.Name(), err)
		}
		changed[phase.Name()] = idx
		p.log.Debug("locator phase %s: %d rules found", phase.Name(), len(idx))
	}

	return changed, nil
}

// Add appends a phase to the pipeline.
func (p *Pipeline) Add(phase driven.LocatorPhase) {
	p.phases = append(p.phases, phase)
}

// Len returns the number of phases in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.phases)
}

// Names returns the phase names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.phases))
	for i, phase := range p.phases {
		names[i] = phase.Name()
	}
	return names
}
