// Package tui provides an interactive terminal user interface for proofcheck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Compare runs page-by-page document comparisons.
	Compare driving.CompareService

	// Locate finds rule-table terms in a document.
	Locate driving.LocateService

	// History lists stored runs. Optional.
	History driving.HistoryService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Capabilities reports optional backend availability. Optional.
	Capabilities driving.CapabilityService

	// ReportDir pre-fills the compare view's report directory.
	ReportDir string
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(compare driving.CompareService, locate driving.LocateService) *Ports {
	return &Ports{
		Compare: compare,
		Locate:  locate,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Compare == nil {
		return ErrMissingCompareService
	}
	if p.Locate == nil {
		return ErrMissingLocateService
	}
	return nil
}
