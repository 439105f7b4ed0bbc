// Package phases implements the term locator phases: direct keyword,
// historical examples, hint strategies and the temperature keyword scan.
package phases

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

var punctuation = strings.NewReplacer(
	".", " ", ",", " ", ":", " ", ";", " ", "(", " ", ")", " ",
	"-", " ", "\u2013", " ", "\u2014", " ",
)

// Dotted capital I folds to "i" plus a combining dot, dotless i has no
// fold at all. Both collapse to a plain "i" so Turkish and English
// spellings compare equal.
var turkishI = strings.NewReplacer("\u0307", "", "ı", "i")

// Fold returns the case-folded form of s.
func Fold(s string) string {
	return turkishI.Replace(cases.Fold().String(s))
}

// Normalize folds case, turns punctuation and dashes into spaces and
// collapses whitespace runs into single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(punctuation.Replace(Fold(s))), " ")
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	_, _, ok := IndexFold(s, substr)
	return ok
}

// IndexFold returns the byte span in s of the first case-insensitive
// occurrence of substr. Runes are compared one to one, so the span can
// be used to slice the original string.
func IndexFold(s, substr string) (start, end int, ok bool) {
	needle := foldRunes(substr)
	if len(needle) == 0 {
		return 0, 0, false
	}

	hay := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		hay = append(hay, foldRune(r))
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))

	for i := 0; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return offsets[i], offsets[i+len(needle)], true
		}
	}
	return 0, 0, false
}

func foldRune(r rune) rune {
	switch r {
	case 'I', 'ı', 'İ':
		return 'i'
	}
	return unicode.ToLower(r)
}

func foldRunes(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, foldRune(r))
	}
	return out
}

// Lines splits page text into trimmed, non-empty lines.
func Lines(page string) []string {
	raw := strings.Split(page, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// trailing returns the text after span end on lines[i], dropping a
// leading colon. When nothing follows, the next line is used.
func trailing(lines []string, i, end int) (string, bool) {
	rest := strings.TrimSpace(lines[i][end:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	if rest != "" {
		return rest, true
	}
	if i+1 < len(lines) {
		return lines[i+1], true
	}
	return "", false
}

// pending returns the indexes of rules not yet found.
func pending(rules []domain.Rule) []int {
	var idx []int
	for i := range rules {
		if !rules[i].Found {
			idx = append(idx, i)
		}
	}
	return idx
}
