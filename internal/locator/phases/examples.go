package phases

import (
	"context"
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LocatorPhase = (*Examples)(nil)

// Examples matches a rule's historical spellings against the
// normalised page text. The first example that appears anywhere wins,
// and every page containing it is recorded as a location.
//
// The test is a plain substring check, so a short spelling can match
// inside a longer unrelated word.
type Examples struct{}

// NewExamples creates the examples phase.
func NewExamples() *Examples {
	return &Examples{}
}

// Name returns the phase name.
func (e *Examples) Name() string {
	return string(domain.PhaseExamples)
}

// Apply marks rules with a matching example.
func (e *Examples) Apply(ctx context.Context, pages []string, rules []domain.Rule) ([]int, error) {
	var changed []int

	normalised := make([]string, len(pages))
	for i, p := range pages {
		normalised[i] = Normalize(p)
	}

	for _, i := range pending(rules) {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		for _, example := range rules[i].ExampleList() {
			needle := Normalize(example)
			if needle == "" {
				continue
			}
			for p, text := range normalised {
				if !strings.Contains(text, needle) {
					continue
				}
				if rules[i].Found {
					rules[i].AddLocation(p, example)
				} else if rules[i].MarkFound(domain.PhaseExamples, p, example) {
					changed = append(changed, i)
				}
			}
			if rules[i].Found {
				break
			}
		}
	}
	return changed, nil
}
