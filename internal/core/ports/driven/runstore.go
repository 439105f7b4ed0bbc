package driven

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// RunStore persists run history.
type RunStore interface {
	// Save creates or replaces a run with its page and rule records.
	Save(ctx context.Context, run *domain.RunRecord) error

	// Get retrieves a run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns runs newest first. An empty kind lists every kind.
	// A limit of 0 means no limit.
	List(ctx context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error)

	// Delete removes a run and its records.
	Delete(ctx context.Context, id string) error
}
