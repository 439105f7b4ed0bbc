package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// OCRBackend recognises text in a preprocessed image.
type OCRBackend interface {
	// Name identifies the backend in configuration (ocr.backends).
	Name() string

	// Init prepares the backend. It is called at most once.
	// Returning an error removes the backend from the fallback chain.
	Init(ctx context.Context) error

	// Recognize returns the text in img.
	Recognize(ctx context.Context, img image.Image) (string, error)

	// Capability reports whether the backend can be used on this machine.
	Capability() domain.CapabilityStatus

	// Close releases backend resources.
	Close() error
}

// TextExtractor turns a page bitmap into text.
// Absence of text is an explicit value, never an error.
type TextExtractor interface {
	Extract(ctx context.Context, img image.Image) domain.OptionalText
}
