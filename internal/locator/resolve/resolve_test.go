package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// line lays words out left to right on one line, 10 points per rune.
func line(y float64, texts ...string) []domain.PageWord {
	var out []domain.PageWord
	x := 0.0
	for _, t := range texts {
		w := float64(len([]rune(t))) * 10
		out = append(out, domain.PageWord{Text: t, Rect: domain.Rect{X0: x, Y0: y, X1: x + w, Y1: y + 12}})
		x += w + 5
	}
	return out
}

func page() []domain.PageWord {
	words := line(100, "Dosage:", "500", "mg", "twice", "daily.")
	words = append(words, line(120, "Store", "below", "25°C.")...)
	words = append(words, line(140, "Keep", "in", "the", "original")...)
	words = append(words, line(152, "package.")...)
	return words
}

func TestResolve_Exact(t *testing.T) {
	words := page()
	r, method, ok := Resolve(words, "500 mg")
	require.True(t, ok)
	assert.Equal(t, MethodExact, method)
	assert.Equal(t, words[1].Rect.Union(words[2].Rect), r)
	assert.False(t, r.Empty())
}

func TestResolve_CaseInsensitive(t *testing.T) {
	words := page()
	r, method, ok := Resolve(words, "STORE BELOW")
	require.True(t, ok)
	assert.Equal(t, MethodExact, method)
	assert.Equal(t, words[5].Rect.Union(words[6].Rect), r)
}

func TestResolve_Normalised(t *testing.T) {
	words := page()
	_, method, ok := Resolve(words, "twice \n daily")
	require.True(t, ok)
	assert.Equal(t, MethodNormalised, method)
}

func TestResolve_SpansLineBreak(t *testing.T) {
	words := page()
	r, _, ok := Resolve(words, "original\npackage")
	require.True(t, ok)

	orig, pkg := words[11].Rect, words[12].Rect
	assert.Equal(t, orig.Union(pkg), r)
	assert.Equal(t, 140.0, r.Y0)
	assert.Equal(t, 164.0, r.Y1)
}

func TestResolve_WordSequenceFallback(t *testing.T) {
	words := page()
	// Punctuation differs from the page, so the joined-text search fails.
	r, method, ok := Resolve(words, "Dosage 500 mg")
	require.True(t, ok)
	assert.Equal(t, MethodWordSequence, method)
	assert.Equal(t, words[0].Rect.Union(words[2].Rect), r)
}

func TestResolve_NotFound(t *testing.T) {
	_, _, ok := Resolve(page(), "ibuprofen")
	assert.False(t, ok)

	_, _, ok = Resolve(nil, "x")
	assert.False(t, ok)

	_, _, ok = Resolve(page(), "  ")
	assert.False(t, ok)
}

func TestLocation_CachesOutcome(t *testing.T) {
	loc := domain.NewLocation(0, "Store below 25°C.")
	method, ok := Location(&loc, page())
	require.True(t, ok)
	assert.Equal(t, MethodExact, method)
	first, _ := loc.Resolved()

	// A second call does not search again, even with different words.
	_, ok = Location(&loc, nil)
	require.True(t, ok)
	again, _ := loc.Resolved()
	assert.Equal(t, first, again)

	missing := domain.NewLocation(0, "absent text")
	_, ok = Location(&missing, page())
	assert.False(t, ok)
	assert.Equal(t, domain.RectFailed, missing.Resolution)
	assert.Nil(t, missing.Rect)

	_, ok = Location(&missing, page())
	assert.False(t, ok)
	assert.Equal(t, domain.RectFailed, missing.Resolution)
}
