// Package textsim scores the similarity of two extracted page texts.
package textsim

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// Notes attached to one-sided or vacuous comparisons.
const (
	NoteNeither = "no text found in either document"
	NoteOneSide = "no text found in one document"
)

// Compare scores two optional texts. Absent and empty text are treated
// alike here: both give a noted result rather than a real ratio.
func Compare(left, right domain.OptionalText) domain.TextComparison {
	res := domain.TextComparison{Left: left, Right: right}

	hasLeft := left.Valid && left.Value != ""
	hasRight := right.Valid && right.Value != ""

	switch {
	case !hasLeft && !hasRight:
		res.Ratio = 1.0
		res.Note = NoteNeither
		return res
	case !hasLeft || !hasRight:
		res.Ratio = 0.0
		res.Note = NoteOneSide
		return res
	}

	res.Ratio = Ratio(left.Value, right.Value)

	diff, err := UnifiedDiff(left.Value, right.Value)
	if err != nil {
		res.Note = fmt.Sprintf("diff failed: %v", err)
		return res
	}
	res.UnifiedDiff = diff
	return res
}

// Ratio is the character-level matching-blocks ratio 2*M/T.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(runes(a), runes(b))
	return m.Ratio()
}

// UnifiedDiff returns a line-level unified diff labelled left/right.
func UnifiedDiff(a, b string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "left",
		ToFile:   "right",
		Context:  3,
	})
}

// DiffLines returns up to limit changed lines (prefixed + or -) from a
// unified diff, each cut to width runes. Headers are skipped.
func DiffLines(diff string, limit, width int) []string {
	var out []string
	for _, line := range difflib.SplitLines(diff) {
		if len(out) >= limit {
			break
		}
		line = trimNewline(line)
		if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
			continue
		}
		if len(line) >= 3 && (line[:3] == "+++" || line[:3] == "---") {
			continue
		}
		out = append(out, domain.TruncateRunes(line, width))
	}
	return out
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
