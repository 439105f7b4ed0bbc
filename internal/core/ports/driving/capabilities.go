package driving

import "github.com/custodia-labs/proofcheck/internal/core/domain"

// CapabilityService reports which optional backends are usable.
type CapabilityService interface {
	// List returns the status of every known backend.
	List() []domain.CapabilityStatus
}
