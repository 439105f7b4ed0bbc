package phases

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LocatorPhase = (*KeywordScan)(nil)

// defaultUnit is scanned for when no unit marker is configured.
const defaultUnit = "°C"

// KeywordScan is the last resort for storage-condition rules: when the
// hint talks about temperature, the first line carrying a temperature
// unit is taken as the match.
type KeywordScan struct {
	markers []string
	units   []string
}

// NewKeywordScan creates the phase. markers decide which hints qualify;
// the ones holding a degree sign are also the units scanned for.
func NewKeywordScan(markers []string) *KeywordScan {
	var units []string
	for _, m := range markers {
		if u := canonUnit(m); strings.ContainsRune(u, '°') && !slices.Contains(units, u) {
			units = append(units, u)
		}
	}
	if len(units) == 0 {
		units = []string{defaultUnit}
	}
	return &KeywordScan{markers: markers, units: units}
}

// Name returns the phase name.
func (k *KeywordScan) Name() string {
	return string(domain.PhaseKeywordScan)
}

// Apply marks qualifying rules with the first line carrying one of the
// units the hint mentions, or any configured unit when it names none.
func (k *KeywordScan) Apply(ctx context.Context, pages []string, rules []domain.Rule) ([]int, error) {
	var changed []int
	if err := ctx.Err(); err != nil {
		return changed, err
	}

	split := splitPages(pages)
	for _, i := range pending(rules) {
		if !k.qualifies(rules[i].Hint) {
			continue
		}
		page, line, ok := firstUnitLine(split, k.unitsFor(rules[i].Hint))
		if !ok {
			continue
		}
		if rules[i].MarkFound(domain.PhaseKeywordScan, page, line) {
			changed = append(changed, i)
		}
	}
	return changed, nil
}

func (k *KeywordScan) qualifies(hint string) bool {
	h := canonUnit(hint)
	for _, m := range k.markers {
		if ContainsFold(h, canonUnit(m)) {
			return true
		}
	}
	return false
}

func (k *KeywordScan) unitsFor(hint string) []string {
	h := canonUnit(hint)
	var named []string
	for _, u := range k.units {
		if ContainsFold(h, u) {
			named = append(named, u)
		}
	}
	if len(named) == 0 {
		return k.units
	}
	return named
}

func firstUnitLine(pages [][]string, units []string) (int, string, bool) {
	for p, lines := range pages {
		for _, line := range lines {
			c := canonUnit(line)
			for _, u := range units {
				if ContainsFold(c, u) {
					return p, line, true
				}
			}
		}
	}
	return 0, "", false
}

// canonUnit writes the ordinal indicator as a degree sign and drops the
// blanks after a degree sign, so "25 º C" reads "25 °C".
func canonUnit(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	degree := false
	for _, r := range s {
		if r == 'º' {
			r = '°'
		}
		if degree && unicode.IsSpace(r) {
			continue
		}
		degree = r == '°'
		b.WriteRune(r)
	}
	return b.String()
}
