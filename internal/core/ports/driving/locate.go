package driving

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// LocateRequest is the input to a locate run.
type LocateRequest struct {
	// RulePath is the rule table (.xlsx or .csv).
	RulePath string

	// DocumentPath is the control document searched for each rule.
	DocumentPath string
}

// LocateSession holds an open document and the outcome of a locate run.
// Rectangles are resolved on demand through the session.
type LocateSession interface {
	// Run returns the locate outcome. Resolved rectangles are reflected in it.
	Run() *domain.LocateRun

	// Resolve computes (or returns the cached) rectangle for one location
	// of the rule at the given sheet row.
	Resolve(ctx context.Context, row, location int) (domain.Location, error)

	// PageText returns the text of a 0-based page for display.
	PageText(ctx context.Context, page int) (string, error)

	// Close releases the document.
	Close() error
}

// LocateService finds rule terms in a document.
type LocateService interface {
	// Start runs the locator and keeps the document open for resolution.
	Start(ctx context.Context, req LocateRequest) (LocateSession, error)

	// Locate runs the locator and closes the document.
	// When resolve is true every location's rectangle is resolved first.
	Locate(ctx context.Context, req LocateRequest, resolve bool) (*domain.LocateRun, error)
}
