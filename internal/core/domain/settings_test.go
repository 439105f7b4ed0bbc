package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	require.NoError(t, s.Validate())
	assert.Equal(t, 216, s.Render.DPI)
	assert.Equal(t, 10, s.Diff.Threshold)
	assert.Equal(t, 2, s.Diff.MinArea)
	assert.Equal(t, 2000, s.Features.MaxKeypoints)
	assert.InDelta(t, 0.75, s.Features.Ratio, 1e-9)
	assert.Equal(t, "tur+eng", s.OCR.Languages)
	assert.Equal(t, "eng", s.OCR.FallbackLanguage)
	assert.Equal(t, 1500, s.OCR.MinLongEdge)
	assert.Equal(t, PageMismatchSkip, s.Compare.PageMismatch)
	assert.Contains(t, s.Locator.DirectMarkers, "active substance")
	assert.Contains(t, s.Locator.TemperatureMarkers, "°C")
	assert.Equal(t, []string{"direct_keyword", "examples", "hint", "keyword_scan"}, s.Locator.Pipeline.Phases)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"dpi too low", func(s *Settings) { s.Render.DPI = 10 }},
		{"threshold out of range", func(s *Settings) { s.Diff.Threshold = 300 }},
		{"negative min area", func(s *Settings) { s.Diff.MinArea = -1 }},
		{"bad backend", func(s *Settings) { s.Features.Backend = "gpu" }},
		{"ratio too high", func(s *Settings) { s.Features.Ratio = 1 }},
		{"too few keypoints", func(s *Settings) { s.Features.MaxKeypoints = 1 }},
		{"bad policy", func(s *Settings) { s.Compare.PageMismatch = "pad" }},
		{"bad signal", func(s *Settings) { s.Compare.Signals = []Signal{"sound"} }},
		{"bad phase", func(s *Settings) { s.Locator.Pipeline.Phases = []string{"examples", "none"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCompareSettings_SignalEnabled(t *testing.T) {
	all := CompareSettings{}
	for _, sig := range AllSignals() {
		assert.True(t, all.SignalEnabled(sig))
	}

	some := CompareSettings{Signals: []Signal{SignalDiff, SignalText}}
	assert.True(t, some.SignalEnabled(SignalText))
	assert.False(t, some.SignalEnabled(SignalSSIM))
}

func TestPageMismatchPolicy(t *testing.T) {
	for _, p := range AllPageMismatchPolicies() {
		assert.True(t, p.IsValid())
		assert.NotEqual(t, unknownDescription, p.Description())
	}
	assert.Equal(t, unknownDescription, PageMismatchPolicy("x").Description())
}

func TestPipelineConfig_GetPhaseConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()
	assert.Equal(t, 3, cfg.GetPhaseConfig("hint")["heading_lines"])
	assert.Nil(t, cfg.GetPhaseConfig("examples"))

	empty := PipelineConfig{}
	assert.Nil(t, empty.GetPhaseConfig("hint"))
}

func TestSettingChoices(t *testing.T) {
	assert.Equal(t, []string{"skip", "blank"}, SettingChoices("compare.page_mismatch"))
	assert.Equal(t, []string{"auto", "pure", "opencv"}, SettingChoices("features.backend"))
	assert.Nil(t, SettingChoices("render.dpi"))
}
