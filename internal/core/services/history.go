package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes stored compare and locate runs.
type HistoryService struct {
	runStore driven.RunStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runStore driven.RunStore) *HistoryService {
	return &HistoryService{runStore: runStore}
}

// List returns runs newest first.
func (s *HistoryService) List(ctx context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, kind)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", domain.ErrInvalidInput)
	}
	return s.runStore.List(ctx, kind, limit)
}

// Get retrieves a run by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	return s.runStore.Get(ctx, id)
}

// Delete removes a run.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	return s.runStore.Delete(ctx, id)
}
