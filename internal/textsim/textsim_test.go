package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestCompare_BothAbsent(t *testing.T) {
	res := Compare(domain.NoText(), domain.NoText())
	assert.Equal(t, 1.0, res.Ratio)
	assert.Equal(t, NoteNeither, res.Note)
	assert.True(t, res.HasNote())
}

func TestCompare_OneAbsent(t *testing.T) {
	res := Compare(domain.SomeText("hello"), domain.NoText())
	assert.Equal(t, 0.0, res.Ratio)
	assert.Equal(t, NoteOneSide, res.Note)

	res = Compare(domain.NoText(), domain.SomeText("hello"))
	assert.Equal(t, 0.0, res.Ratio)
	assert.Equal(t, NoteOneSide, res.Note)
}

func TestCompare_EmptyTreatedAsAbsent(t *testing.T) {
	res := Compare(domain.SomeText(""), domain.SomeText("x"))
	assert.Equal(t, 0.0, res.Ratio)
	assert.Equal(t, NoteOneSide, res.Note)
}

func TestCompare_Identical(t *testing.T) {
	res := Compare(domain.SomeText("Parasetamol 500 mg"), domain.SomeText("Parasetamol 500 mg"))
	assert.Equal(t, 1.0, res.Ratio)
	assert.Empty(t, res.Note)
	assert.Empty(t, res.UnifiedDiff)
}

func TestCompare_Different(t *testing.T) {
	left := "line one\nline two\nline three\n"
	right := "line one\nline 2\nline three\n"

	res := Compare(domain.SomeText(left), domain.SomeText(right))
	assert.Greater(t, res.Ratio, 0.5)
	assert.Less(t, res.Ratio, 1.0)
	assert.Contains(t, res.UnifiedDiff, "--- left")
	assert.Contains(t, res.UnifiedDiff, "+++ right")
	assert.Contains(t, res.UnifiedDiff, "-line two")
	assert.Contains(t, res.UnifiedDiff, "+line 2")
}

func TestRatio(t *testing.T) {
	// Same values as Python's difflib.SequenceMatcher(None, a, b).ratio().
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", "xyz"), 1e-9)
	assert.InDelta(t, 1.0, Ratio("çğış", "çğış"), 1e-9)
}

func TestDiffLines(t *testing.T) {
	diff, err := UnifiedDiff("a\nb\nc\n", "a\nB\nc\nd\n")
	require.NoError(t, err)

	lines := DiffLines(diff, 10, 80)
	assert.Equal(t, []string{"-b", "+B", "+d"}, lines)

	assert.Len(t, DiffLines(diff, 1, 80), 1)
	assert.Equal(t, []string{"-"}, DiffLines("-bbbb\n", 5, 1))
}
