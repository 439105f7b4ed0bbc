package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyRenderDPI          = "render.dpi"
	keyDiffThreshold      = "diff.threshold"
	keyDiffMinArea        = "diff.min_area"
	keyFeaturesBackend    = "features.backend"
	keyFeaturesMax        = "features.max_keypoints"
	keyFeaturesRatio      = "features.ratio"
	keyOCRBackends        = "ocr.backends"
	keyOCRLanguages       = "ocr.languages"
	keyOCRFallback        = "ocr.fallback_language"
	keyOCRMinLongEdge     = "ocr.min_long_edge"
	keyComparePolicy      = "compare.page_mismatch"
	keyCompareSignals     = "compare.signals"
	keyLocatorMarkers     = "locator.direct_markers"
	keyLocatorTemperature = "locator.temperature_markers"
	keyLocatorPhases      = "locator.phases"
	keyLocatorHeading     = "locator.heading_lines"
	keyReportDir          = "report.dir"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Missing or invalid values fall back
// to the defaults key by key.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Render: domain.RenderSettings{
			DPI: s.getInt(keyRenderDPI, d.Render.DPI),
		},
		Diff: domain.DiffSettings{
			Threshold: s.getInt(keyDiffThreshold, d.Diff.Threshold),
			MinArea:   s.getInt(keyDiffMinArea, d.Diff.MinArea),
		},
		Features: domain.FeatureSettings{
			Backend:      s.getFeatureBackend(d.Features.Backend),
			MaxKeypoints: s.getInt(keyFeaturesMax, d.Features.MaxKeypoints),
			Ratio:        s.getFloat(keyFeaturesRatio, d.Features.Ratio),
		},
		OCR: domain.OCRSettings{
			Backends:         s.getStrings(keyOCRBackends, d.OCR.Backends),
			Languages:        s.getString(keyOCRLanguages, d.OCR.Languages),
			FallbackLanguage: s.getString(keyOCRFallback, d.OCR.FallbackLanguage),
			MinLongEdge:      s.getInt(keyOCRMinLongEdge, d.OCR.MinLongEdge),
		},
		Compare: domain.CompareSettings{
			PageMismatch: s.getPageMismatch(d.Compare.PageMismatch),
			Signals:      s.getSignals(),
		},
		Locator: domain.LocatorSettings{
			DirectMarkers:      s.getStrings(keyLocatorMarkers, d.Locator.DirectMarkers),
			TemperatureMarkers: s.getStrings(keyLocatorTemperature, d.Locator.TemperatureMarkers),
			Pipeline: domain.PipelineConfig{
				Phases: s.getStrings(keyLocatorPhases, d.Locator.Pipeline.Phases),
				PhaseConfigs: map[string]map[string]any{
					string(domain.PhaseHint): {
						"heading_lines": s.getInt(keyLocatorHeading, headingLines(d)),
					},
				},
			},
		},
		Report: domain.ReportSettings{
			Dir: s.getString(keyReportDir, d.Report.Dir),
		},
	}

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyRenderDPI:          settings.Render.DPI,
		keyDiffThreshold:      settings.Diff.Threshold,
		keyDiffMinArea:        settings.Diff.MinArea,
		keyFeaturesBackend:    settings.Features.Backend.String(),
		keyFeaturesMax:        settings.Features.MaxKeypoints,
		keyFeaturesRatio:      settings.Features.Ratio,
		keyOCRBackends:        settings.OCR.Backends,
		keyOCRLanguages:       settings.OCR.Languages,
		keyOCRFallback:        settings.OCR.FallbackLanguage,
		keyOCRMinLongEdge:     settings.OCR.MinLongEdge,
		keyComparePolicy:      settings.Compare.PageMismatch.String(),
		keyCompareSignals:     signalStrings(settings.Compare.Signals),
		keyLocatorMarkers:     settings.Locator.DirectMarkers,
		keyLocatorTemperature: settings.Locator.TemperatureMarkers,
		keyLocatorPhases:      settings.Locator.Pipeline.Phases,
		keyLocatorHeading:     headingLines(*settings),
		keyReportDir:          settings.Report.Dir,
	}
	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set parses value for a single key, validates the result and saves it.
// List keys take comma-separated values.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case keyRenderDPI:
		err = parseInt(value, &settings.Render.DPI)
	case keyDiffThreshold:
		err = parseInt(value, &settings.Diff.Threshold)
	case keyDiffMinArea:
		err = parseInt(value, &settings.Diff.MinArea)
	case keyFeaturesBackend:
		settings.Features.Backend = domain.FeatureBackend(value)
	case keyFeaturesMax:
		err = parseInt(value, &settings.Features.MaxKeypoints)
	case keyFeaturesRatio:
		settings.Features.Ratio, err = strconv.ParseFloat(value, 64)
	case keyOCRBackends:
		settings.OCR.Backends = splitList(value)
	case keyOCRLanguages:
		settings.OCR.Languages = value
	case keyOCRFallback:
		settings.OCR.FallbackLanguage = value
	case keyOCRMinLongEdge:
		err = parseInt(value, &settings.OCR.MinLongEdge)
	case keyComparePolicy:
		settings.Compare.PageMismatch = domain.PageMismatchPolicy(value)
	case keyCompareSignals:
		settings.Compare.Signals = nil
		for _, v := range splitList(value) {
			settings.Compare.Signals = append(settings.Compare.Signals, domain.Signal(v))
		}
	case keyLocatorMarkers:
		settings.Locator.DirectMarkers = splitList(value)
	case keyLocatorTemperature:
		settings.Locator.TemperatureMarkers = splitList(value)
	case keyLocatorPhases:
		settings.Locator.Pipeline.Phases = splitList(value)
	case keyLocatorHeading:
		var n int
		if err = parseInt(value, &n); err == nil {
			settings.Locator.Pipeline.PhaseConfigs[string(domain.PhaseHint)]["heading_lines"] = n
		}
	case keyReportDir:
		settings.Report.Dir = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	return s.Save(settings)
}

// Value formats the current value of key. Lists are comma-separated.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyRenderDPI:
		return strconv.Itoa(settings.Render.DPI), nil
	case keyDiffThreshold:
		return strconv.Itoa(settings.Diff.Threshold), nil
	case keyDiffMinArea:
		return strconv.Itoa(settings.Diff.MinArea), nil
	case keyFeaturesBackend:
		return settings.Features.Backend.String(), nil
	case keyFeaturesMax:
		return strconv.Itoa(settings.Features.MaxKeypoints), nil
	case keyFeaturesRatio:
		return strconv.FormatFloat(settings.Features.Ratio, 'g', -1, 64), nil
	case keyOCRBackends:
		return strings.Join(settings.OCR.Backends, ","), nil
	case keyOCRLanguages:
		return settings.OCR.Languages, nil
	case keyOCRFallback:
		return settings.OCR.FallbackLanguage, nil
	case keyOCRMinLongEdge:
		return strconv.Itoa(settings.OCR.MinLongEdge), nil
	case keyComparePolicy:
		return settings.Compare.PageMismatch.String(), nil
	case keyCompareSignals:
		return strings.Join(signalStrings(settings.Compare.Signals), ","), nil
	case keyLocatorMarkers:
		return strings.Join(settings.Locator.DirectMarkers, ","), nil
	case keyLocatorTemperature:
		return strings.Join(settings.Locator.TemperatureMarkers, ","), nil
	case keyLocatorPhases:
		return strings.Join(settings.Locator.Pipeline.Phases, ","), nil
	case keyLocatorHeading:
		return strconv.Itoa(headingLines(*settings)), nil
	case keyReportDir:
		return settings.Report.Dir, nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns every recognised configuration key.
func (s *SettingsService) Keys() []string {
	return []string{
		keyRenderDPI, keyDiffThreshold, keyDiffMinArea,
		keyFeaturesBackend, keyFeaturesMax, keyFeaturesRatio,
		keyOCRBackends, keyOCRLanguages, keyOCRFallback, keyOCRMinLongEdge,
		keyComparePolicy, keyCompareSignals,
		keyLocatorMarkers, keyLocatorTemperature, keyLocatorPhases, keyLocatorHeading,
		keyReportDir,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats a stored zero as a real value; several keys accept it.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFeatureBackend(defaultVal domain.FeatureBackend) domain.FeatureBackend {
	backend := domain.FeatureBackend(s.configStore.GetString(keyFeaturesBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getPageMismatch(defaultVal domain.PageMismatchPolicy) domain.PageMismatchPolicy {
	policy := domain.PageMismatchPolicy(s.configStore.GetString(keyComparePolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

// getSignals drops unknown names; an empty list enables every signal.
func (s *SettingsService) getSignals() []domain.Signal {
	var out []domain.Signal
	for _, v := range s.configStore.GetStringSlice(keyCompareSignals) {
		if sig := domain.Signal(v); sig.IsValid() {
			out = append(out, sig)
		}
	}
	return out
}

func headingLines(s domain.Settings) int {
	cfg := s.Locator.Pipeline.GetPhaseConfig(string(domain.PhaseHint))
	if n, ok := cfg["heading_lines"].(int); ok {
		return n
	}
	return 0
}

func signalStrings(signals []domain.Signal) []string {
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = s.String()
	}
	return out
}

func parseInt(value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
