package domain

import (
	"path/filepath"
	"strings"
)

// DocumentFormat identifies how a document file is read.
type DocumentFormat string

// Supported document formats.
const (
	FormatPDF   DocumentFormat = "pdf"
	FormatImage DocumentFormat = "image"
	FormatDOCX  DocumentFormat = "docx"
	FormatText  DocumentFormat = "text"
)

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, true
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return FormatImage, true
	case ".docx":
		return FormatDOCX, true
	case ".txt", ".text":
		return FormatText, true
	default:
		return "", false
	}
}

// DocumentInfo describes an opened document.
type DocumentInfo struct {
	// Path is the file the document was opened from.
	Path string

	Format DocumentFormat

	// PageCount is the number of pages (1 for raster images).
	PageCount int

	// Renderable is true if pages can be rasterised.
	Renderable bool

	// HasWords is true if word boxes are available for highlighting.
	HasWords bool

	// Backend names the adapter that opened the document.
	Backend string
}
