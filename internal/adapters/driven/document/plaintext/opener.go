// Package plaintext opens text files. A form feed starts a new page.
package plaintext

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.DocumentOpener = (*Opener)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Name identifies the opener.
const Name = "plaintext"

// Opener reads UTF-8 and BOM-marked UTF-16 text files.
type Opener struct{}

// New creates a plain text opener.
func New() *Opener {
	return &Opener{}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the text format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatText}
}

// Priority returns the selection priority.
func (o *Opener) Priority() int { return 1 }

// Capability is always available.
func (o *Opener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityDocument,
		Available: true,
		Detail:    "text only",
	}
}

// Open reads and decodes the whole file.
func (o *Opener) Open(_ context.Context, path string) (driven.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, dec))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	return &Document{path: path, pages: splitPages(string(data))}, nil
}

func splitPages(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\f\n")
	pages := strings.Split(s, "\f")
	for i, p := range pages {
		pages[i] = strings.Trim(p, "\n")
	}
	return pages
}

// Document holds the decoded pages.
type Document struct {
	path  string
	pages []string
}

// Info returns document metadata.
func (d *Document) Info() domain.DocumentInfo {
	return domain.DocumentInfo{
		Path:      d.path,
		Format:    domain.FormatText,
		PageCount: len(d.pages),
		Backend:   Name,
	}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// RenderPage is not supported.
func (d *Document) RenderPage(_ context.Context, _, _ int) (image.Image, error) {
	return nil, fmt.Errorf("%w: text pages cannot be rendered", domain.ErrNotImplemented)
}

// PageText returns the text of a page.
func (d *Document) PageText(_ context.Context, index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, index+1, len(d.pages))
	}
	return d.pages[index], nil
}

// PageWords is not supported.
func (d *Document) PageWords(_ context.Context, _ int) ([]domain.PageWord, error) {
	return nil, domain.ErrNotImplemented
}

// Close is a no-op.
func (d *Document) Close() error { return nil }
