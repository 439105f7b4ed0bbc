package locator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// mockPhase marks every pending rule, or fails.
type mockPhase struct {
	name  string
	page  int
	err   error
	calls int
}

func (m *mockPhase) Name() string {
	return m.name
}

func (m *mockPhase) Apply(_ context.Context, _ []string, rules []domain.Rule) ([]int, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var changed []int
	for i := range rules {
		if rules[i].MarkFound(domain.SearchPhase(m.name), m.page, m.name) {
			changed = append(changed, i)
		}
	}
	return changed, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())

	p.Add(&mockPhase{name: "a"})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"a"}, p.Names())
}

func TestPipeline_Run_EarlierPhaseWins(t *testing.T) {
	first := &mockPhase{name: "examples", page: 1}
	second := &mockPhase{name: "hint", page: 5}
	p := NewPipeline(first, second)

	rules := []domain.Rule{domain.NewRule(2, "a", "", ""), domain.NewRule(3, "b", "", "")}
	changed, err := p.Run(context.Background(), []string{"x"}, rules)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, changed["examples"])
	assert.Empty(t, changed["hint"])
	assert.Equal(t, 1, second.calls)
	for _, r := range rules {
		assert.Equal(t, domain.PhaseExamples, r.Phase)
		assert.Equal(t, 1, r.Locations[0].PageIndex)
	}
}

func TestPipeline_Run_Error(t *testing.T) {
	boom := errors.New("boom")
	after := &mockPhase{name: "after"}
	p := NewPipeline(&mockPhase{name: "bad", err: boom}, after)

	_, err := p.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "phase bad")
	assert.Zero(t, after.calls)
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	phase := &mockPhase{name: "a"}

	_, err := NewPipeline(phase).Run(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, phase.calls)
}

func TestPipeline_Run_Logs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(&mockPhase{name: "examples"}).WithLogger(logger.New(&buf, true))

	_, err := p.Run(context.Background(), nil, []domain.Rule{domain.NewRule(2, "a", "", "")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "locator phase examples: 1 rules found")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("x"))

	r.Register("x", func(map[string]any) (driven.LocatorPhase, error) {
		return &mockPhase{name: "x"}, nil
	})
	assert.True(t, r.Has("x"))
	assert.Equal(t, []string{"x"}, r.Names())

	phase, err := r.Build("x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", phase.Name())

	_, err = r.Build("missing", nil)
	assert.EqualError(t, err, "unknown phase: missing")
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	assert.Equal(t, []string{"direct_keyword", "examples", "hint", "keyword_scan"}, r.Names())
}

func TestBuild_Defaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := Build(r, domain.DefaultSettings().Locator, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"direct_keyword", "examples", "hint", "keyword_scan"}, p.Names())
}

func TestBuild_UnknownPhase(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	s := domain.DefaultSettings().Locator
	s.Pipeline.Phases = []string{"examples", "guess"}
	_, err := Build(r, s, nil)
	assert.EqualError(t, err, "unknown phase: guess")
}

func TestBuild_EndToEnd(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := Build(r, domain.DefaultSettings().Locator, nil)
	require.NoError(t, err)

	pages := []string{
		"Active substance: Ibuprofen 200 mg",
		"Dosage: 500 mg twice daily\nStore below 30°C",
	}
	rules := []domain.Rule{
		domain.NewRule(2, "Active substance", "", ""),
		domain.NewRule(3, "Dosage", "with dosage", "500mg-500 mg"),
		domain.NewRule(4, "Storage", "storage temperature", ""),
		domain.NewRule(5, "Missing", "", ""),
	}

	changed, err := p.Run(context.Background(), pages, rules)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, changed["direct_keyword"])
	assert.Equal(t, []int{1}, changed["examples"])
	assert.Empty(t, changed["hint"], "found rules are not revisited")
	assert.Equal(t, []int{2}, changed["keyword_scan"])

	assert.Equal(t, "Ibuprofen 200 mg", rules[0].MatchedText)
	assert.Equal(t, domain.PhaseExamples, rules[1].Phase)
	assert.Equal(t, "Store below 30°C", rules[2].MatchedText)
	assert.False(t, rules[3].Found)
	assert.Equal(t, domain.PhaseNone, rules[3].Phase)
}

func TestGetFromConfig(t *testing.T) {
	cfg := map[string]any{
		"i":   3,
		"i64": int64(4),
		"f":   5.0,
		"s":   "x",
		"ss":  []string{"a"},
		"sa":  []any{"a", 1, "b"},
	}
	assert.Equal(t, 3, getIntFromConfig(cfg, "i"))
	assert.Equal(t, 4, getIntFromConfig(cfg, "i64"))
	assert.Equal(t, 5, getIntFromConfig(cfg, "f"))
	assert.Equal(t, 0, getIntFromConfig(cfg, "s"))
	assert.Equal(t, 0, getIntFromConfig(cfg, "missing"))

	assert.Equal(t, []string{"x"}, getStringSliceFromConfig(cfg, "s"))
	assert.Equal(t, []string{"a"}, getStringSliceFromConfig(cfg, "ss"))
	assert.Equal(t, []string{"a", "b"}, getStringSliceFromConfig(cfg, "sa"))
	assert.Nil(t, getStringSliceFromConfig(cfg, "i"))
}
