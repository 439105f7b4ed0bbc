// Package poppler opens PDF documents with the poppler command-line
// tools. Pages are rendered with pdftoppm, text and word boxes come
// from pdftotext and the page count from pdfcpu.
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.DocumentOpener = (*Opener)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Name identifies the opener.
const Name = "poppler"

const (
	toolRender = "pdftoppm"
	toolText   = "pdftotext"
	toolInfo   = "pdfinfo"
)

// InstallInstructions returns how to install the poppler tools.
func InstallInstructions() string {
	return "PDF support requires pdftoppm and pdftotext from poppler:\n" +
		"  macOS:  brew install poppler\n" +
		"  Linux:  apt install poppler-utils\n" +
		"  Windows: choco install poppler"
}

// Opener opens PDFs through the poppler tools.
type Opener struct {
	runner driven.CommandRunner
}

// New creates a poppler opener using runner to execute the tools.
func New(runner driven.CommandRunner) *Opener {
	return &Opener{runner: runner}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the PDF format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatPDF}
}

// Priority returns the selection priority for an external tool opener.
func (o *Opener) Priority() int { return 60 }

// Capability reports whether both tools are installed.
func (o *Opener) Capability() domain.CapabilityStatus {
	st := domain.CapabilityStatus{Name: Name, Kind: domain.CapabilityDocument, Install: InstallInstructions()}
	for _, tool := range []string{toolRender, toolText} {
		if _, err := o.runner.LookPath(tool); err != nil {
			st.Detail = tool + " not found"
			return st
		}
	}
	st.Available = true
	st.Detail = toolRender + ", " + toolText
	return st
}

// Open reads the page count and returns a document handle.
func (o *Opener) Open(ctx context.Context, path string) (driven.Document, error) {
	pages, err := o.pageCount(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	return &Document{path: path, pages: pages, runner: o.runner}, nil
}

var pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// pageCount asks pdfcpu first and falls back to pdfinfo, which copes
// with files pdfcpu refuses to validate.
func (o *Opener) pageCount(ctx context.Context, path string) (int, error) {
	n, cpuErr := pdfcpuPageCount(path)
	if cpuErr == nil {
		return n, nil
	}

	out, err := o.runner.Run(ctx, toolInfo, path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu: %v; pdfinfo: %w", cpuErr, err)
	}
	m := pagesRe.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("pdfinfo: no page count for %s", path)
	}
	return strconv.Atoi(string(m[1]))
}

func pdfcpuPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, err
	}
	return pctx.PageCount, nil
}

// PageWords returns the word boxes of a 0-based page of the PDF at
// path without opening a Document. Other PDF openers use it when their
// own backend has no word geometry.
func (o *Opener) PageWords(ctx context.Context, path string, index int) ([]domain.PageWord, error) {
	if _, err := o.runner.LookPath(toolText); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotImplemented, err)
	}
	n := strconv.Itoa(index + 1)
	out, err := o.runner.Run(ctx, toolText, "-f", n, "-l", n, "-bbox", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, err
	}
	return parseBBox(out)
}

// Document is an opened PDF. It holds no process or file handle
// between calls; every page operation runs a tool.
type Document struct {
	path   string
	pages  int
	runner driven.CommandRunner
}

// Info returns document metadata.
func (d *Document) Info() domain.DocumentInfo {
	return domain.DocumentInfo{
		Path:       d.path,
		Format:     domain.FormatPDF,
		PageCount:  d.pages,
		Renderable: true,
		HasWords:   true,
		Backend:    Name,
	}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

func (d *Document) pageArgs(index int) ([]string, error) {
	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, index+1, d.pages)
	}
	n := strconv.Itoa(index + 1)
	return []string{"-f", n, "-l", n}, nil
}

// RenderPage rasterises a page to PNG at dpi and decodes it.
func (d *Document) RenderPage(ctx context.Context, index, dpi int) (image.Image, error) {
	args, err := d.pageArgs(index)
	if err != nil {
		return nil, err
	}
	args = append(args, "-r", strconv.Itoa(dpi), "-png", "-singlefile", d.path)

	out, err := d.runner.Run(ctx, toolRender, args...)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", index+1, err)
	}
	return img, nil
}

// PageText returns the page text in reading order.
func (d *Document) PageText(ctx context.Context, index int) (string, error) {
	args, err := d.pageArgs(index)
	if err != nil {
		return "", err
	}
	args = append(args, "-enc", "UTF-8", d.path, "-")

	out, err := d.runner.Run(ctx, toolText, args...)
	if err != nil {
		return "", err
	}
	// pdftotext ends every page with a form feed.
	return strings.TrimRight(string(out), "\f\n"), nil
}

// PageWords returns word boxes in PDF points.
func (d *Document) PageWords(ctx context.Context, index int) ([]domain.PageWord, error) {
	args, err := d.pageArgs(index)
	if err != nil {
		return nil, err
	}
	args = append(args, "-bbox", "-enc", "UTF-8", d.path, "-")

	out, err := d.runner.Run(ctx, toolText, args...)
	if err != nil {
		return nil, err
	}
	return parseBBox(out)
}

// Close is a no-op.
func (d *Document) Close() error { return nil }
