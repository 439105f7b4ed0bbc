// Package resolve finds the on-page rectangle of located text.
// It runs only when a caller asks for the exact position of a match.
package resolve

import (
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/locator/phases"
)

// Method records which search produced a rectangle.
type Method string

// Resolution methods, tried in this order.
const (
	MethodExact        Method = "exact"
	MethodNormalised   Method = "normalised"
	MethodWordSequence Method = "word_sequence"
)

// Resolve returns the bounding box of text among the page words.
//
// The words are joined with single spaces and searched for text, then
// for text with its whitespace collapsed. If both fail, a run of
// consecutive words each containing the next sought word is accepted,
// which tolerates punctuation glued to words and line breaks inside
// the match.
func Resolve(words []domain.PageWord, text string) (domain.Rect, Method, bool) {
	if len(words) == 0 || strings.TrimSpace(text) == "" {
		return domain.Rect{}, "", false
	}

	joined, spans := join(words)

	if r, ok := search(words, joined, spans, text); ok {
		return r, MethodExact, true
	}

	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed != text {
		if r, ok := search(words, joined, spans, collapsed); ok {
			return r, MethodNormalised, true
		}
	}

	if r, ok := wordSequence(words, strings.Fields(collapsed)); ok {
		return r, MethodWordSequence, true
	}
	return domain.Rect{}, "", false
}

type span struct {
	start, end int
}

func join(words []domain.PageWord) (string, []span) {
	var b strings.Builder
	spans := make([]span, len(words))
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		spans[i].start = b.Len()
		b.WriteString(w.Text)
		spans[i].end = b.Len()
	}
	return b.String(), spans
}

// search unions the boxes of every word overlapping the first match.
func search(words []domain.PageWord, joined string, spans []span, text string) (domain.Rect, bool) {
	start, end, ok := phases.IndexFold(joined, text)
	if !ok {
		return domain.Rect{}, false
	}

	var r domain.Rect
	for i, s := range spans {
		if s.end > start && s.start < end {
			r = r.Union(words[i].Rect)
		}
	}
	return r, !r.Empty()
}

func wordSequence(words []domain.PageWord, sought []string) (domain.Rect, bool) {
	if len(sought) == 0 {
		return domain.Rect{}, false
	}

	for start := 0; start+len(sought) <= len(words); start++ {
		var r domain.Rect
		matched := true
		for i, sw := range sought {
			w := words[start+i]
			if !phases.ContainsFold(w.Text, sw) {
				matched = false
				break
			}
			r = r.Union(w.Rect)
		}
		if matched && !r.Empty() {
			return r, true
		}
	}
	return domain.Rect{}, false
}

// Location resolves loc in place against the words of its page.
// A pending location is searched once; resolved and failed locations
// return their recorded state.
func Location(loc *domain.Location, words []domain.PageWord) (Method, bool) {
	if !loc.IsPending() {
		_, ok := loc.Resolved()
		return "", ok
	}

	r, method, ok := Resolve(words, loc.MatchedText)
	if !ok {
		loc.MarkFailed()
		return "", false
	}
	loc.SetRect(r)
	return method, true
}
