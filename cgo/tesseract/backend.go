//go:build cgo && tesseract

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.OCRBackend = (*Backend)(nil)

// Name identifies the backend in ocr.backends.
const Name = "gosseract"

// Available reports whether tesseract is compiled in.
func Available() bool { return true }

// Backend keeps one tesseract client for the life of the process.
// The client is not safe for concurrent use, so calls are serialised.
type Backend struct {
	mu       sync.Mutex
	client   *gosseract.Client
	primary  string
	fallback string
}

// New creates a backend for the language spec primary ("tur+eng"),
// falling back to fallback when that data is missing.
func New(primary, fallback string) *Backend {
	return &Backend{primary: primary, fallback: fallback}
}

// Name returns the backend name.
func (b *Backend) Name() string { return Name }

// Init creates the client and selects the languages.
func (b *Backend) Init(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	installed, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return fmt.Errorf("list languages: %w", err)
	}
	have := make(map[string]bool, len(installed))
	for _, l := range installed {
		have[l] = true
	}

	var langs []string
	for _, spec := range []string{b.primary, b.fallback} {
		if l := split(spec); len(l) > 0 && all(have, l) {
			langs = l
			break
		}
	}
	if langs == nil {
		return fmt.Errorf("%w: tesseract has no data for %q or %q",
			domain.ErrCapabilityUnavailable, b.primary, b.fallback)
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return err
	}
	b.client = client
	return nil
}

// Recognize encodes img as PNG and reads its text.
func (b *Backend) Recognize(_ context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode page: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return "", domain.ErrCapabilityUnavailable
	}
	if err := b.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}
	return b.client.Text()
}

// Capability reports the linked tesseract version.
func (b *Backend) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityOCR,
		Available: true,
		Detail:    "tesseract " + gosseract.Version(),
	}
}

// Close releases the client.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

func split(spec string) []string {
	var out []string
	for _, l := range strings.Split(spec, "+") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func all(have map[string]bool, langs []string) bool {
	for _, l := range langs {
		if !have[l] {
			return false
		}
	}
	return true
}
