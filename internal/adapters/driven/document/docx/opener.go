// Package docx opens Word documents as text-only pages.
// Pages are split at explicit page breaks and at the breaks Word
// recorded when the file was last laid out.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.DocumentOpener = (*Opener)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Name identifies the opener.
const Name = "docx"

const bodyPart = "word/document.xml"

// Opener reads .docx files.
type Opener struct{}

// New creates a DOCX opener.
func New() *Opener {
	return &Opener{}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the DOCX format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatDOCX}
}

// Priority returns the selection priority.
func (o *Opener) Priority() int { return 5 }

// Capability is always available.
func (o *Opener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityDocument,
		Available: true,
		Detail:    "text only",
	}
}

// Open reads the document body and splits it into pages.
func (o *Opener) Open(_ context.Context, path string) (driven.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != bodyPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
		}
		pages, err := parsePages(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
		}
		return &Document{path: path, pages: pages}, nil
	}
	return nil, fmt.Errorf("%w: %s missing", domain.ErrDocumentLoad, bodyPart)
}

// parsePages walks the body XML. Paragraphs become lines; tabs become
// tab characters and line breaks newlines.
func parsePages(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		pages  []string
		page   strings.Builder
		line   strings.Builder
		inText bool
	)
	flushLine := func() {
		if page.Len() > 0 {
			page.WriteByte('\n')
		}
		page.WriteString(line.String())
		line.Reset()
	}
	breakPage := func() {
		if line.Len() > 0 {
			flushLine()
		}
		if strings.TrimSpace(page.String()) == "" {
			page.Reset()
			return
		}
		pages = append(pages, strings.TrimSpace(page.String()))
		page.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br":
				if attr(t, "type") == "page" {
					breakPage()
				} else {
					line.WriteByte('\n')
				}
			case "lastRenderedPageBreak":
				breakPage()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flushLine()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	breakPage()

	if len(pages) == 0 {
		pages = []string{""}
	}
	return pages, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Document holds the extracted page texts.
type Document struct {
	path  string
	pages []string
}

// Info returns document metadata.
func (d *Document) Info() domain.DocumentInfo {
	return domain.DocumentInfo{
		Path:      d.path,
		Format:    domain.FormatDOCX,
		PageCount: len(d.pages),
		Backend:   Name,
	}
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// RenderPage is not supported; DOCX pages have no layout here.
func (d *Document) RenderPage(_ context.Context, _, _ int) (image.Image, error) {
	return nil, fmt.Errorf("%w: docx pages cannot be rendered", domain.ErrNotImplemented)
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
