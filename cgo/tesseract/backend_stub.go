//go:build !cgo || !tesseract

package tesseract

import (
	"context"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.OCRBackend = (*Backend)(nil)

// Name identifies the backend in ocr.backends.
const Name = "gosseract"

// Available reports whether tesseract is compiled in.
func Available() bool { return false }

// Backend is a stub for builds without tesseract.
type Backend struct{}

// New creates a stub backend.
func New(_, _ string) *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string { return Name }

// Init always fails, which drops the backend from the fallback chain.
func (b *Backend) Init(_ context.Context) error {
	return domain.ErrCapabilityUnavailable
}

// Recognize always fails.
func (b *Backend) Recognize(_ context.Context, _ image.Image) (string, error) {
	return "", domain.ErrCapabilityUnavailable
}

// Capability reports the backend as unavailable.
func (b *Backend) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:    Name,
		Kind:    domain.CapabilityOCR,
		Detail:  "built without tesseract",
		Install: "Install libtesseract-dev and rebuild with: go build -tags tesseract ./cmd/proofcheck",
	}
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }
