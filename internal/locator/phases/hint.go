package phases

import (
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LocatorPhase = (*Hint)(nil)

// DefaultHeadingLines is how many lines below a heading are captured.
const DefaultHeadingLines = 3

// Hint patterns run against a clause lowered with foldRune, so the
// Turkish dotless i is already a plain "i".
var (
	pageHintRe     = regexp.MustCompile(`(?:^|\s)(?:page|sayfa|p\.)\s*:?\s*(\d+)\b`)
	underHeadingRe = regexp.MustCompile(`^under\s+(?:the\s+)?heading\s+(.+)$`)
	underXRe       = regexp.MustCompile(`^under\s+(?:the\s+)?(.+?)\s+heading$`)
	baslikRe       = regexp.MustCompile(`^başlik\s*:?\s*(.+)$`)
	afterRe        = regexp.MustCompile(`^after\s+(.+)$`)
	withRe         = regexp.MustCompile(`^(?:with|near|next\s+to)\s+(.+)$`)
)

// ParseHint turns free hint text into search strategies, in the order
// they appear. Clauses are separated by commas, semicolons or newlines.
// Text that matches no pattern yields no strategy.
func ParseHint(hint string) []domain.Strategy {
	var out []domain.Strategy

	for _, clause := range strings.FieldsFunc(hint, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		clause = strings.TrimSpace(string(foldRunes(clause)))
		if clause == "" {
			continue
		}

		if m := pageHintRe.FindStringSubmatchIndex(clause); m != nil {
			n, err := strconv.Atoi(clause[m[2]:m[3]])
			if err == nil && n > 0 {
				out = append(out, domain.PageHint{PageIndex: n - 1})
			}
			clause = strings.TrimSpace(clause[:m[0]] + " " + clause[m[1]:])
		}

		if s := parseClause(clause); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func parseClause(clause string) domain.Strategy {
	match := func(re *regexp.Regexp) (string, bool) {
		m := re.FindStringSubmatch(clause)
		if m == nil {
			return "", false
		}
		kw := strings.TrimSpace(strings.Trim(m[1], `"'“”‘’`))
		return kw, kw != ""
	}

	if kw, ok := match(underHeadingRe); ok {
		return domain.UnderHeading{Heading: kw}
	}
	if kw, ok := match(underXRe); ok {
		return domain.UnderHeading{Heading: kw}
	}
	if kw, ok := match(baslikRe); ok {
		return domain.UnderHeading{Heading: kw}
	}
	if kw, ok := match(afterRe); ok {
		return domain.AfterKeyword{Keyword: kw}
	}
	if kw, ok := match(withRe); ok {
		return domain.WithKeyword{Keyword: kw}
	}
	return nil
}

// Hint runs the strategies parsed from each rule's hint text.
type Hint struct {
	headingLines int
}

// NewHint creates the hint phase. headingLines is the number of lines
// captured under a heading; non-positive values use the default.
func NewHint(headingLines int) *Hint {
	if headingLines <= 0 {
		headingLines = DefaultHeadingLines
	}
	return &Hint{headingLines: headingLines}
}

// Name returns the phase name.
func (h *Hint) Name() string {
	return string(domain.PhaseHint)
}

// Apply marks rules whose hint strategies find text.
func (h *Hint) Apply(ctx context.Context, pages []string, rules []domain.Rule) ([]int, error) {
	var changed []int
	lines := splitPages(pages)

	for _, i := range pending(rules) {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if strings.TrimSpace(rules[i].Hint) == "" {
			continue
		}

		strategies := ParseHint(rules[i].Hint)
		scope := pageScope(strategies, len(lines))

		for _, s := range strategies {
			page, text, ok := h.search(s, lines, scope)
			if ok && rules[i].MarkFound(domain.PhaseHint, page, text) {
				changed = append(changed, i)
				break
			}
		}
	}
	return changed, nil
}

// pageScope returns the pages to search. The first page hint wins; a
// page hint beyond the document leaves nothing to search.
func pageScope(strategies []domain.Strategy, n int) []int {
	for _, s := range strategies {
		if ph, ok := s.(domain.PageHint); ok {
			if ph.PageIndex < n {
				return []int{ph.PageIndex}
			}
			return nil
		}
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}

func (h *Hint) search(s domain.Strategy, pages [][]string, scope []int) (int, string, bool) {
	for _, p := range scope {
		lines := pages[p]
		for j, line := range lines {
			switch st := s.(type) {
			case domain.UnderHeading:
				if isHeading(line) && ContainsFold(line, st.Heading) && j+1 < len(lines) {
					end := min(j+1+h.headingLines, len(lines))
					return p, strings.Join(lines[j+1:end], "\n"), true
				}
			case domain.AfterKeyword:
				if _, end, ok := IndexFold(line, st.Keyword); ok {
					if text, ok := trailing(lines, j, end); ok {
						return p, text, true
					}
				}
			case domain.WithKeyword:
				if ContainsFold(line, st.Keyword) {
					return p, line, true
				}
			}
		}
	}
	return 0, "", false
}

// titleWords mark a heading when they appear as a whole word.
var titleWords = []string{Fold("title"), Fold("başlık")}

// isHeading reports whether line looks like a section heading: every
// letter upper case, or an explicit title marker.
func isHeading(line string) bool {
	words := strings.FieldsFunc(Fold(line), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if slices.Contains(titleWords, w) {
			return true
		}
	}
	letters := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsLower(r) {
			return false
		}
	}
	return letters > 0
}
