package domain

import (
	"fmt"
	"slices"
)

const unknownDescription = "Unknown"

// PageMismatchPolicy decides what happens to a page index that exists
// in only one of the two documents.
type PageMismatchPolicy string

// Available page mismatch policies.
const (
	// PageMismatchSkip leaves the page out and records it as skipped.
	PageMismatchSkip PageMismatchPolicy = "skip"

	// PageMismatchBlank compares the page against a white page of the same size.
	PageMismatchBlank PageMismatchPolicy = "blank"
)

// IsValid returns true if the policy is recognised.
func (p PageMismatchPolicy) IsValid() bool {
	switch p {
	case PageMismatchSkip, PageMismatchBlank:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p PageMismatchPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p PageMismatchPolicy) Description() string {
	switch p {
	case PageMismatchSkip:
		return "Skip pages missing on one side"
	case PageMismatchBlank:
		return "Compare missing pages against a blank page"
	default:
		return unknownDescription
	}
}

// Signal names one comparator of the page pipeline.
type Signal string

// Comparator signals.
const (
	SignalDiff     Signal = "diff"
	SignalSSIM     Signal = "ssim"
	SignalColor    Signal = "color"
	SignalFeatures Signal = "features"
	SignalText     Signal = "text"
)

// IsValid returns true if the signal is recognised.
func (s Signal) IsValid() bool {
	return slices.Contains(AllSignals(), s)
}

// String returns the string representation.
func (s Signal) String() string {
	return string(s)
}

// AllSignals returns every comparator signal in pipeline order.
func AllSignals() []Signal {
	return []Signal{SignalDiff, SignalSSIM, SignalColor, SignalFeatures, SignalText}
}

// FeatureBackend selects the keypoint matcher implementation.
type FeatureBackend string

// Available feature backends.
const (
	// FeatureBackendAuto uses OpenCV when compiled in, otherwise pure Go.
	FeatureBackendAuto FeatureBackend = "auto"

	// FeatureBackendPure always uses the pure Go matcher.
	FeatureBackendPure FeatureBackend = "pure"

	// FeatureBackendOpenCV requires the OpenCV matcher.
	FeatureBackendOpenCV FeatureBackend = "opencv"
)

// IsValid returns true if the backend is recognised.
func (b FeatureBackend) IsValid() bool {
	switch b {
	case FeatureBackendAuto, FeatureBackendPure, FeatureBackendOpenCV:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b FeatureBackend) String() string {
	return string(b)
}

// RenderSettings holds page rasterisation configuration.
type RenderSettings struct {
	// DPI is the render resolution. 216 matches a 3x zoom of 72pt pages.
	DPI int
}

// DiffSettings holds pixel difference detector configuration.
type DiffSettings struct {
	// Threshold is the grey-level difference a pixel must exceed.
	Threshold int

	// MinArea is the smallest region, in pixels, that is reported.
	MinArea int
}

// FeatureSettings holds keypoint matcher configuration.
type FeatureSettings struct {
	Backend FeatureBackend

	// MaxKeypoints caps detected keypoints per image.
	MaxKeypoints int

	// Ratio is the nearest/second-nearest distance ratio for a good match.
	Ratio float64
}

// OCRSettings holds OCR extractor configuration.
type OCRSettings struct {
	// Backends is the ordered list of backend names to try.
	Backends []string

	// Languages is the primary tesseract language spec.
	Languages string

	// FallbackLanguage is tried when Languages fails.
	FallbackLanguage string

	// MinLongEdge is the long edge small images are upscaled to.
	MinLongEdge int
}

// CompareSettings holds orchestrator configuration.
type CompareSettings struct {
	PageMismatch PageMismatchPolicy

	// Signals lists enabled comparators. Empty means all.
	Signals []Signal
}

// SignalEnabled returns true if the comparator should run.
func (c CompareSettings) SignalEnabled(s Signal) bool {
	if len(c.Signals) == 0 {
		return true
	}
	return slices.Contains(c.Signals, s)
}

// LocatorSettings holds term locator configuration.
type LocatorSettings struct {
	// DirectMarkers are labels whose rules use the direct keyword phase.
	DirectMarkers []string

	// TemperatureMarkers enable the keyword scan phase for a rule's hint.
	TemperatureMarkers []string

	// Pipeline is the ordered phase configuration.
	Pipeline PipelineConfig
}

// ReportSettings holds report exporter configuration.
type ReportSettings struct {
	// Dir is the default export directory.
	Dir string
}

// Settings holds all application settings.
type Settings struct {
	Render   RenderSettings
	Diff     DiffSettings
	Features FeatureSettings
	OCR      OCRSettings
	Compare  CompareSettings
	Locator  LocatorSettings
	Report   ReportSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Render: RenderSettings{DPI: 216},
		Diff: DiffSettings{
			Threshold: 10,
			MinArea:   2,
		},
		Features: FeatureSettings{
			Backend:      FeatureBackendAuto,
			MaxKeypoints: 2000,
			Ratio:        0.75,
		},
		OCR: OCRSettings{
			Backends:         []string{"gosseract", "tesseract-cli"},
			Languages:        "tur+eng",
			FallbackLanguage: "eng",
			MinLongEdge:      1500,
		},
		Compare: CompareSettings{
			PageMismatch: PageMismatchSkip,
		},
		Locator: LocatorSettings{
			DirectMarkers:      []string{"active substance", "etkin madde"},
			TemperatureMarkers: []string{"°C", "° C", "ºC", "derece", "temperature", "sıcaklık"},
			Pipeline:           DefaultPipelineConfig(),
		},
		Report: ReportSettings{Dir: "proofcheck-report"},
	}
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	switch {
	case s.Render.DPI < 36 || s.Render.DPI > 1200:
		return fmt.Errorf("%w: render.dpi must be in [36, 1200], got %d", ErrInvalidInput, s.Render.DPI)
	case s.Diff.Threshold < 0 || s.Diff.Threshold > 254:
		return fmt.Errorf("%w: diff.threshold must be in [0, 254], got %d", ErrInvalidInput, s.Diff.Threshold)
	case s.Diff.MinArea < 0:
		return fmt.Errorf("%w: diff.min_area must not be negative", ErrInvalidInput)
	case !s.Features.Backend.IsValid():
		return fmt.Errorf("%w: unknown features.backend %q", ErrInvalidInput, s.Features.Backend)
	case s.Features.MaxKeypoints < 2:
		return fmt.Errorf("%w: features.max_keypoints must be at least 2", ErrInvalidInput)
	case s.Features.Ratio <= 0 || s.Features.Ratio >= 1:
		return fmt.Errorf("%w: features.ratio must be in (0, 1)", ErrInvalidInput)
	case s.OCR.MinLongEdge < 0:
		return fmt.Errorf("%w: ocr.min_long_edge must not be negative", ErrInvalidInput)
	case !s.Compare.PageMismatch.IsValid():
		return fmt.Errorf("%w: unknown compare.page_mismatch %q", ErrInvalidInput, s.Compare.PageMismatch)
	}
	for _, sig := range s.Compare.Signals {
		if !sig.IsValid() {
			return fmt.Errorf("%w: unknown signal %q", ErrInvalidInput, sig)
		}
	}
	for _, name := range s.Locator.Pipeline.Phases {
		if p := SearchPhase(name); !p.IsValid() || p == PhaseNone {
			return fmt.Errorf("%w: unknown locator phase %q", ErrInvalidInput, name)
		}
	}
	return nil
}

// AllPageMismatchPolicies returns all page mismatch policies.
func AllPageMismatchPolicies() []PageMismatchPolicy {
	return []PageMismatchPolicy{PageMismatchSkip, PageMismatchBlank}
}

// SettingChoices lists the allowed values of a settings key that takes one
// of a fixed set, or nil for free-form keys.
func SettingChoices(key string) []string {
	switch key {
	case "compare.page_mismatch":
		policies := AllPageMismatchPolicies()
		out := make([]string, len(policies))
		for i, p := range policies {
			out[i] = p.String()
		}
		return out
	case "features.backend":
		return []string{FeatureBackendAuto.String(), FeatureBackendPure.String(), FeatureBackendOpenCV.String()}
	default:
		return nil
	}
}

// PipelineConfig holds locator phase pipeline configuration.
// Uses generic map-based config so new phases can be added
// without modifying this struct.
type PipelineConfig struct {
	// Phases is the ordered list of phase names to run.
	Phases []string

	// PhaseConfigs holds per-phase configuration as generic maps.
	PhaseConfigs map[string]map[string]any
}

// GetPhaseConfig returns config for a specific phase, or nil if not set.
func (c *PipelineConfig) GetPhaseConfig(name string) map[string]any {
	if c.PhaseConfigs == nil {
		return nil
	}
	return c.PhaseConfigs[name]
}

// DefaultPipelineConfig returns the default locator pipeline.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Phases: []string{
			string(PhaseDirectKeyword),
			string(PhaseExamples),
			string(PhaseHint),
			string(PhaseKeywordScan),
		},
		PhaseConfigs: map[string]map[string]any{
			string(PhaseHint): {
				"heading_lines": 3,
			},
		},
	}
}
