package domain

import (
	"strings"
	"time"
)

// SearchPhase identifies which locator phase resolved a rule.
type SearchPhase string

// Locator phases in execution order.
const (
	PhaseNone          SearchPhase = "none"
	PhaseDirectKeyword SearchPhase = "direct_keyword"
	PhaseExamples      SearchPhase = "examples"
	PhaseHint          SearchPhase = "hint"
	PhaseKeywordScan   SearchPhase = "keyword_scan"
)

// String returns the string representation.
func (p SearchPhase) String() string {
	return string(p)
}

// IsValid returns true if the phase is recognised.
func (p SearchPhase) IsValid() bool {
	switch p {
	case PhaseNone, PhaseDirectKeyword, PhaseExamples, PhaseHint, PhaseKeywordScan:
		return true
	default:
		return false
	}
}

// AllPhases returns the phases that can resolve a rule, in order.
func AllPhases() []SearchPhase {
	return []SearchPhase{PhaseDirectKeyword, PhaseExamples, PhaseHint, PhaseKeywordScan}
}

// RectResolution is the state of a location's on-page rectangle.
type RectResolution string

// Rectangle resolution states.
const (
	// RectUnresolved means nobody has asked for the rectangle yet.
	RectUnresolved RectResolution = "unresolved"

	// RectResolved means Rect holds the bounding box.
	RectResolved RectResolution = "resolved"

	// RectFailed means resolution ran and found nothing.
	// The page is still known; only the highlight is missing.
	RectFailed RectResolution = "failed"
)

// Location is one page where a rule matched.
type Location struct {
	// PageIndex is 0-based.
	PageIndex   int    `json:"page_index"`
	MatchedText string `json:"matched_text"`

	Resolution RectResolution `json:"resolution"`

	// Rect is nil until Resolution is RectResolved.
	Rect *Rect `json:"rect"`
}

// NewLocation creates an unresolved location.
func NewLocation(pageIndex int, matched string) Location {
	return Location{
		PageIndex:   pageIndex,
		MatchedText: matched,
		Resolution:  RectUnresolved,
	}
}

// Resolved returns the rectangle if resolution succeeded.
func (l *Location) Resolved() (Rect, bool) {
	if l.Resolution != RectResolved || l.Rect == nil {
		return Rect{}, false
	}
	return *l.Rect, true
}

// SetRect records a successful resolution.
func (l *Location) SetRect(r Rect) {
	l.Rect = &r
	l.Resolution = RectResolved
}

// MarkFailed records that resolution found nothing.
func (l *Location) MarkFailed() {
	l.Rect = nil
	l.Resolution = RectFailed
}

// IsPending returns true if resolution has not been attempted.
func (l *Location) IsPending() bool {
	return l.Resolution == "" || l.Resolution == RectUnresolved
}

// MaxMatchedText is the rune limit applied to captured text.
const MaxMatchedText = 200

// Rule is one row of a rule table and its locator outcome.
// Once Found is true no later phase may change it.
type Rule struct {
	// RowIndex is the 1-based sheet row.
	RowIndex int `json:"row_index"`

	Reference string `json:"reference_name"`
	Hint      string `json:"hint_text"`

	// Examples is a hyphen-delimited list of historical spellings.
	Examples string `json:"historical_examples"`

	// Values holds every cell of the row for detail display.
	Values []string `json:"values,omitempty"`

	Found       bool        `json:"found"`
	MatchedText string      `json:"matched_text"`
	Phase       SearchPhase `json:"search_phase"`
	Locations   []Location  `json:"locations"`
}

// NewRule creates an unresolved rule.
func NewRule(row int, reference, hint, examples string) Rule {
	return Rule{
		RowIndex:  row,
		Reference: reference,
		Hint:      hint,
		Examples:  examples,
		Phase:     PhaseNone,
	}
}

// ExampleList splits Examples on hyphens and drops empty entries.
func (r *Rule) ExampleList() []string {
	if strings.TrimSpace(r.Examples) == "" {
		return nil
	}
	parts := strings.Split(r.Examples, "-")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MarkFound records a match. It is a no-op on a rule that is already found.
func (r *Rule) MarkFound(phase SearchPhase, pageIndex int, matched string) bool {
	if r.Found {
		return false
	}
	matched = TruncateRunes(strings.TrimSpace(matched), MaxMatchedText)
	r.Found = true
	r.Phase = phase
	r.MatchedText = matched
	r.Locations = append(r.Locations, NewLocation(pageIndex, matched))
	return true
}

// AddLocation records a further page for a found rule.
// The phase and matched text stay as set by MarkFound.
func (r *Rule) AddLocation(pageIndex int, matched string) {
	if !r.Found {
		return
	}
	for _, l := range r.Locations {
		if l.PageIndex == pageIndex {
			return
		}
	}
	matched = TruncateRunes(strings.TrimSpace(matched), MaxMatchedText)
	r.Locations = append(r.Locations, NewLocation(pageIndex, matched))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// LocateRun is a complete locator pass over one document.
type LocateRun struct {
	ID           string    `json:"id"`
	RulePath     string    `json:"rule_path"`
	DocumentPath string    `json:"document_path"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Rules        []Rule    `json:"results"`
}

// FoundCount returns the number of resolved rules.
func (r *LocateRun) FoundCount() int {
	n := 0
	for i := range r.Rules {
		if r.Rules[i].Found {
			n++
		}
	}
	return n
}

// PhaseCounts returns how many rules each phase resolved.
func (r *LocateRun) PhaseCounts() map[SearchPhase]int {
	counts := make(map[SearchPhase]int)
	for i := range r.Rules {
		counts[r.Rules[i].Phase]++
	}
	return counts
}

// Rule returns the rule for a sheet row.
func (r *LocateRun) Rule(row int) (*Rule, bool) {
	for i := range r.Rules {
		if r.Rules[i].RowIndex == row {
			return &r.Rules[i], true
		}
	}
	return nil, false
}
