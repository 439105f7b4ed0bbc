package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// Document is an opened, paged document.
// Handles are owned by one run or locate session and must be closed.
type Document interface {
	// Info returns metadata captured at open time.
	Info() domain.DocumentInfo

	// PageCount returns the number of pages.
	PageCount() int

	// RenderPage rasterises a 0-based page at the given resolution.
	// Text-only documents return domain.ErrNotImplemented.
	RenderPage(ctx context.Context, index, dpi int) (image.Image, error)

	// PageText returns the text of a 0-based page in reading order,
	// one line per text line.
	PageText(ctx context.Context, index int) (string, error)

	// PageWords returns word boxes for a 0-based page in page points.
	// Documents without geometry return domain.ErrNotImplemented.
	PageWords(ctx context.Context, index int) ([]domain.PageWord, error)

	// Close releases the underlying handle.
	Close() error
}

// DocumentOpener opens documents of particular formats.
type DocumentOpener interface {
	// Name identifies the opener in logs and capability listings.
	Name() string

	// SupportedFormats returns the formats this opener reads.
	SupportedFormats() []domain.DocumentFormat

	// Priority returns the selection priority (higher = preferred).
	// Native cgo openers should return 90-100.
	// External tool openers should return 50-89.
	// Fallback openers should return 1-9.
	Priority() int

	// Capability reports whether the opener can be used on this machine.
	Capability() domain.CapabilityStatus

	// Open opens a document file.
	Open(ctx context.Context, path string) (Document, error)
}

// DocumentRegistry selects the best available opener for a file.
type DocumentRegistry interface {
	// Open opens a file using the highest priority available opener.
	Open(ctx context.Context, path string) (Document, error)

	// Register adds an opener to the registry.
	Register(opener DocumentOpener)

	// Capabilities reports the status of every registered opener.
	Capabilities() []domain.CapabilityStatus
}
