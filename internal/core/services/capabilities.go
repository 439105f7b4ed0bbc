package services

import (
	"sort"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// Ensure CapabilityService implements the interface.
var _ driving.CapabilityService = (*CapabilityService)(nil)

// CapabilitySource reports the status of the backends it manages.
// The document registry and the OCR extractor both satisfy it.
type CapabilitySource interface {
	Capabilities() []domain.CapabilityStatus
}

// CapabilityService collects backend status once at startup.
type CapabilityService struct {
	statuses []domain.CapabilityStatus
}

// NewCapabilityService resolves the status of every source.
// Extra statuses cover single components such as the feature matcher.
func NewCapabilityService(sources []CapabilitySource, extra ...domain.CapabilityStatus) *CapabilityService {
	var statuses []domain.CapabilityStatus
	for _, src := range sources {
		if src != nil {
			statuses = append(statuses, src.Capabilities()...)
		}
	}
	statuses = append(statuses, extra...)

	order := map[domain.CapabilityKind]int{
		domain.CapabilityDocument: 0,
		domain.CapabilityOCR:      1,
		domain.CapabilityFeatures: 2,
		domain.CapabilityRules:    3,
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return order[statuses[i].Kind] < order[statuses[j].Kind]
	})
	return &CapabilityService{statuses: statuses}
}

// List returns the status of every known backend.
func (s *CapabilityService) List() []domain.CapabilityStatus {
	out := make([]domain.CapabilityStatus, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Available returns true if at least one backend of kind can be used.
func (s *CapabilityService) Available(kind domain.CapabilityKind) bool {
	for _, st := range s.statuses {
		if st.Kind == kind && st.Available {
			return true
		}
	}
	return false
}
