//go:build cgo

package fitz

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.DocumentOpener = (*Opener)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Name identifies the opener.
const Name = "mupdf"

// Available reports whether MuPDF is compiled in.
func Available() bool { return true }

// WordSource supplies word boxes for a PDF page. MuPDF's text API in
// go-fitz has no word geometry.
type WordSource interface {
	PageWords(ctx context.Context, path string, index int) ([]domain.PageWord, error)
}

// Opener opens PDFs with MuPDF.
type Opener struct {
	words WordSource
}

// New creates a MuPDF opener. words may be nil.
func New(words WordSource) *Opener {
	return &Opener{words: words}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the PDF format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatPDF}
}

// Priority returns the native opener priority.
func (o *Opener) Priority() int { return 95 }

// Capability is always available when compiled in.
func (o *Opener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityDocument,
		Available: true,
		Detail:    "go-fitz",
	}
}

// Open opens the document.
func (o *Opener) Open(_ context.Context, path string) (driven.Document, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	return &Document{path: path, doc: doc, pages: doc.NumPage(), words: o.words}, nil
}

// Document wraps a MuPDF handle. MuPDF contexts are not safe for
// concurrent use, so every call takes the lock.
type Document struct {
	mu    sync.Mutex
	path  string
	doc   *gofitz.Document
	pages int
	words WordSource
}

// Info returns document metadata.
func (d *Document) Info() domain.DocumentInfo {
	return domain.DocumentInfo{
		Path:       d.path,
		Format:     domain.FormatPDF,
		PageCount:  d.pages,
		Renderable: true,
		HasWords:   d.words != nil,
		Backend:    Name,
	}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

func (d *Document) check(index int) error {
	if index < 0 || index >= d.pages {
		return fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, index+1, d.pages)
	}
	if d.doc == nil {
		return fmt.Errorf("%w: document closed", domain.ErrDocumentLoad)
	}
	return nil
}

// RenderPage rasterises a page at dpi.
func (d *Document) RenderPage(_ context.Context, index, dpi int) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(index); err != nil {
		return nil, err
	}
	return d.doc.ImageDPI(index, float64(dpi))
}

// PageText returns the page text.
func (d *Document) PageText(_ context.Context, index int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.check(index); err != nil {
		return "", err
	}
	text, err := d.doc.Text(index)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}

// PageWords asks the word source, if any.
func (d *Document) PageWords(ctx context.Context, index int) ([]domain.PageWord, error) {
	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, index+1, d.pages)
	}
	if d.words == nil {
		return nil, domain.ErrNotImplemented
	}
	return d.words.PageWords(ctx, d.path, index)
}

// Close releases the MuPDF handle.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
