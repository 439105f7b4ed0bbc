package phases

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LocatorPhase = (*DirectKeyword)(nil)

// DirectKeyword finds rules named after a well-known label, such as the
// active substance line of a leaflet, by reading the text that follows
// the label on the page.
type DirectKeyword struct {
	markers []string
}

// NewDirectKeyword creates the phase with the given label markers.
func NewDirectKeyword(markers []string) *DirectKeyword {
	return &DirectKeyword{markers: markers}
}

// Name returns the phase name.
func (d *DirectKeyword) Name() string {
	return string(domain.PhaseDirectKeyword)
}

// Apply marks rules whose reference contains a marker.
func (d *DirectKeyword) Apply(ctx context.Context, pages []string, rules []domain.Rule) ([]int, error) {
	var changed []int
	lines := splitPages(pages)

	for _, i := range pending(rules) {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		for _, marker := range d.markers {
			if !ContainsFold(rules[i].Reference, marker) {
				continue
			}
			page, text, ok := findLabel(lines, marker)
			if ok && rules[i].MarkFound(domain.PhaseDirectKeyword, page, text) {
				changed = append(changed, i)
				break
			}
		}
	}
	return changed, nil
}

func findLabel(pages [][]string, label string) (int, string, bool) {
	for p, lines := range pages {
		for j, line := range lines {
			_, end, ok := IndexFold(line, label)
			if !ok {
				continue
			}
			if text, ok := trailing(lines, j, end); ok {
				return p, text, true
			}
		}
	}
	return 0, "", false
}

func splitPages(pages []string) [][]string {
	out := make([][]string, len(pages))
	for i, p := range pages {
		out[i] = Lines(p)
	}
	return out
}
