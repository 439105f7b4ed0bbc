// Package raster opens single-page image files. Page text comes from
// OCR when an extractor is configured.
package raster

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the webp decoder

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure interface compliance.
var (
	_ driven.DocumentOpener = (*Opener)(nil)
	_ driven.Document       = (*Document)(nil)
)

// Name identifies the opener.
const Name = "raster"

// Opener opens PNG, JPEG, GIF, BMP, TIFF and WebP files.
type Opener struct {
	extractor driven.TextExtractor
}

// New creates a raster opener. extractor may be nil, in which case
// pages have no text.
func New(extractor driven.TextExtractor) *Opener {
	return &Opener{extractor: extractor}
}

// Name returns the opener name.
func (o *Opener) Name() string { return Name }

// SupportedFormats returns the image format.
func (o *Opener) SupportedFormats() []domain.DocumentFormat {
	return []domain.DocumentFormat{domain.FormatImage}
}

// Priority returns the selection priority.
func (o *Opener) Priority() int { return 5 }

// Capability is always available.
func (o *Opener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityDocument,
		Available: true,
		Detail:    "png, jpeg, gif, bmp, tiff, webp",
	}
}

// Open decodes the image, applying any EXIF orientation.
func (o *Opener) Open(_ context.Context, path string) (driven.Document, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}
	return &Document{path: path, img: img, extractor: o.extractor}, nil
}

// Document is a decoded image held in memory.
type Document struct {
	path      string
	img       image.Image
	extractor driven.TextExtractor

	text *domain.OptionalText
}

// Info returns document metadata.
func (d *Document) Info() domain.DocumentInfo {
	return domain.DocumentInfo{
		Path:       d.path,
		Format:     domain.FormatImage,
		PageCount:  1,
		Renderable: true,
		Backend:    Name,
	}
}

// PageCount always returns 1.
func (d *Document) PageCount() int { return 1 }

func checkPage(index int) error {
	if index != 0 {
		return fmt.Errorf("%w: page %d of 1", domain.ErrPageOutOfRange, index+1)
	}
	return nil
}

// RenderPage returns the image. dpi is ignored; images keep their
// native resolution.
func (d *Document) RenderPage(_ context.Context, index, _ int) (image.Image, error) {
	if err := checkPage(index); err != nil {
		return nil, err
	}
	return d.img, nil
}

// PageText runs OCR on the image once and caches the result.
func (d *Document) PageText(ctx context.Context, index int) (string, error) {
	if err := checkPage(index); err != nil {
		return "", err
	}
	if d.extractor == nil {
		return "", fmt.Errorf("%w: no OCR backend for image text", domain.ErrNotImplemented)
	}
	if d.text == nil {
		t := d.extractor.Extract(ctx, d.img)
		d.text = &t
	}
	return d.text.Value, nil
}

// PageWords is not supported for images.
func (d *Document) PageWords(_ context.Context, index int) ([]domain.PageWord, error) {
	if err := checkPage(index); err != nil {
		return nil, err
	}
	return nil, domain.ErrNotImplemented
}

// Close drops the decoded image.
func (d *Document) Close() error {
	d.img = nil
	return nil
}
