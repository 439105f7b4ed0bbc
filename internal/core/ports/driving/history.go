package driving

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// HistoryService exposes past runs.
type HistoryService interface {
	// List returns runs newest first. An empty kind lists every kind.
	List(ctx context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error)

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error
}
