package driving

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// ProgressFunc is called after each page with the 1-based page number
// and the total number of page indexes.
type ProgressFunc func(page, total int)

// CompareService runs multi-signal page comparisons.
type CompareService interface {
	// Compare runs every enabled comparator on each page pair.
	// progress may be nil.
	Compare(ctx context.Context, req domain.CompareRequest, progress ProgressFunc) (*domain.ComparisonRun, error)

	// ExportReport writes the run's summary, images and PDF bundle to dir.
	ExportReport(ctx context.Context, run *domain.ComparisonRun, dir string) (*domain.ReportFiles, error)
}
