package driven

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// RuleTableReader reads rule rows from a spreadsheet-like file.
type RuleTableReader interface {
	// SupportedExtensions returns lower-case extensions including the dot.
	SupportedExtensions() []string

	// Read returns rules in row order with 1-based row indexes.
	// A file open in another program yields domain.ErrFileLocked.
	Read(ctx context.Context, path string) ([]domain.Rule, error)
}

// LockChecker detects files held open by another program.
type LockChecker interface {
	// Check returns domain.ErrFileLocked when path cannot be opened for writing.
	Check(path string) error
}
