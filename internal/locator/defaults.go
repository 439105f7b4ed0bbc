package locator

import (
	"maps"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/locator/phases"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// RegisterDefaults registers all built-in phases with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(string(domain.PhaseDirectKeyword), buildDirectKeyword)
	r.Register(string(domain.PhaseExamples), buildExamples)
	r.Register(string(domain.PhaseHint), buildHint)
	r.Register(string(domain.PhaseKeywordScan), buildKeywordScan)
}

// Build assembles the pipeline described by settings.
// Marker lists from settings are passed to the phases that need them
// unless the phase config already names its own.
func Build(r *Registry, s domain.LocatorSettings, log *logger.Logger) (*Pipeline, error) {
	names := s.Pipeline.Phases
	if len(names) == 0 {
		names = domain.DefaultPipelineConfig().Phases
	}

	p := NewPipeline().WithLogger(log)
	for _, name := range names {
		cfg := make(map[string]any)
		maps.Copy(cfg, s.Pipeline.GetPhaseConfig(name))

		if _, ok := cfg["markers"]; !ok {
			switch domain.SearchPhase(name) {
			case domain.PhaseDirectKeyword:
				cfg["markers"] = s.DirectMarkers
			case domain.PhaseKeywordScan:
				cfg["markers"] = s.TemperatureMarkers
			}
		}

		phase, err := r.Build(name, cfg)
		if err != nil {
			return nil, err
		}
		p.Add(phase)
	}
	return p, nil
}

// buildDirectKeyword creates the direct keyword phase.
// Supported config keys:
//   - markers ([]string): labels that select rules for this phase
func buildDirectKeyword(cfg map[string]any) (driven.LocatorPhase, error) {
	return phases.NewDirectKeyword(getStringSliceFromConfig(cfg, "markers")), nil
}

func buildExamples(_ map[string]any) (driven.LocatorPhase, error) {
	return phases.NewExamples(), nil
}

// buildHint creates the hint phase.
// Supported config keys:
//   - heading_lines (int): lines captured under a heading (default: 3)
func buildHint(cfg map[string]any) (driven.LocatorPhase, error) {
	return phases.NewHint(getIntFromConfig(cfg, "heading_lines")), nil
}

// buildKeywordScan creates the keyword scan phase.
// Supported config keys:
//   - markers ([]string): hint words that enable the scan
func buildKeywordScan(cfg map[string]any) (driven.LocatorPhase, error) {
	return phases.NewKeywordScan(getStringSliceFromConfig(cfg, "markers")), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringSliceFromConfig extracts a string list, accepting the []any
// that TOML and JSON decoders produce.
func getStringSliceFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}
