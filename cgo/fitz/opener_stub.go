//go:build !cgo

package fitz

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.DocumentOpener = (*Opener)(nil)

// Name identifies the opener.
const Name = "mupdf"

// Available reports whether MuPDF is compiled in.
func Available() bool { return false }

// WordSource supplies word boxes for a PDF page.
type WordSource interface {
	PageWords(ctx context.Context, path string, index int) ([]domain.PageWord, error)
}

// Opener is a stub for builds without cgo.
type Opener struct{}

// New creates a stub opener.
func New(_ WordSource) *Opener {
	return &Opener{}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the PDF format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatPDF}
}

// Priority returns the native opener priority.
func (o *Opener) Priority() int { return 95 }

// Capability reports the opener as unavailable.
func (o *Opener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:    Name,
		Kind:    domain.CapabilityDocument,
		Detail:  "built without cgo",
		Install: "Rebuild with CGO_ENABLED=1 to use MuPDF",
	}
}

// Open always fails.
func (o *Opener) Open(_ context.Context, _ string) (driven.Document, error) {
	return nil, domain.ErrCapabilityUnavailable
}
