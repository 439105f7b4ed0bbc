package driven

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// ReportExporter writes a comparison run to disk.
type ReportExporter interface {
	Export(ctx context.Context, run *domain.ComparisonRun, dir string) (*domain.ReportFiles, error)
}
