package driven

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// LocatorPhase is one pass of the term locator.
// Phases are chained in a pipeline (direct keyword, examples, hint, keyword scan).
type LocatorPhase interface {
	// Name returns the phase name for logging and configuration.
	Name() string

	// Apply searches pages for every rule that is not yet found and
	// marks matches in place. It returns the indexes of rules it changed.
	// pages holds the text of each page, 0-based.
	Apply(ctx context.Context, pages []string, rules []domain.Rule) ([]int, error)
}

// LocatorPipeline chains multiple LocatorPhases.
type LocatorPipeline interface {
	// Run applies every phase in order and returns the changed
	// rule indexes per phase name.
	Run(ctx context.Context, pages []string, rules []domain.Rule) (map[string][]int, error)
}
