package mcp

import (
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Compare runs page comparisons.
	Compare driving.CompareService

	// Locate finds rule terms in documents.
	Locate driving.LocateService

	// History lists stored runs.
	History driving.HistoryService

	// Capabilities reports optional backends.
	Capabilities driving.CapabilityService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Compare == nil {
		return ErrMissingCompareService
	}
	// Locate, History and Capabilities are optional
	return nil
}
