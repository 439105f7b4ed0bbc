// Package tesseract runs the tesseract command-line program as an OCR
// backend.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.OCRBackend = (*Backend)(nil)

// Name identifies the backend in ocr.backends.
const Name = "tesseract-cli"

const tool = "tesseract"

// InstallInstructions returns how to install tesseract.
func InstallInstructions() string {
	return "OCR requires tesseract with the tur and eng language data:\n" +
		"  macOS:  brew install tesseract tesseract-lang\n" +
		"  Linux:  apt install tesseract-ocr tesseract-ocr-tur"
}

// Backend shells out to tesseract once per page.
type Backend struct {
	runner   driven.CommandRunner
	primary  string
	fallback string

	// lang is chosen by Init from the installed language data.
	lang string
}

// New creates a backend. primary is a tesseract language spec such as
// "tur+eng"; fallback is used when the primary data is not installed.
func New(runner driven.CommandRunner, primary, fallback string) *Backend {
	return &Backend{runner: runner, primary: primary, fallback: fallback}
}

// Name returns the backend name.
func (b *Backend) Name() string { return Name }

// Init checks the program and picks a language spec.
func (b *Backend) Init(ctx context.Context) error {
	if _, err := b.runner.LookPath(tool); err != nil {
		return err
	}
	out, err := b.runner.Run(ctx, tool, "--list-langs")
	if err != nil {
		return fmt.Errorf("list languages: %w", err)
	}
	installed := parseLanguages(string(out))

	switch {
	case hasAll(installed, b.primary):
		b.lang = b.primary
	case b.fallback != "" && hasAll(installed, b.fallback):
		b.lang = b.fallback
	default:
		return fmt.Errorf("%w: tesseract has no data for %q or %q",
			domain.ErrCapabilityUnavailable, b.primary, b.fallback)
	}
	return nil
}

// Language returns the language spec chosen by Init.
func (b *Backend) Language() string { return b.lang }

// Recognize writes img to a temporary PNG and reads tesseract's stdout.
// A failure with the primary languages is retried with the fallback.
func (b *Backend) Recognize(ctx context.Context, img image.Image) (string, error) {
	f, err := os.CreateTemp("", "proofcheck-ocr-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer os.Remove(path)

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return "", fmt.Errorf("encode page: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	lang := b.lang
	if lang == "" {
		lang = b.primary
	}
	out, err := b.runner.Run(ctx, tool, path, "stdout", "-l", lang)
	if err != nil && b.fallback != "" && lang != b.fallback {
		out, err = b.runner.Run(ctx, tool, path, "stdout", "-l", b.fallback)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Capability reports whether tesseract is installed.
func (b *Backend) Capability() domain.CapabilityStatus {
	st := domain.CapabilityStatus{Name: Name, Kind: domain.CapabilityOCR, Install: InstallInstructions()}
	path, err := b.runner.LookPath(tool)
	if err != nil {
		st.Detail = tool + " not found"
		return st
	}
	st.Available = true
	st.Detail = path
	return st
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }

// parseLanguages reads the output of tesseract --list-langs, whose first
// line is a header.
func parseLanguages(out string) map[string]bool {
	langs := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		langs[line] = true
	}
	return langs
}

func hasAll(installed map[string]bool, spec string) bool {
	if spec == "" {
		return false
	}
	for _, l := range strings.Split(spec, "+") {
		if !installed[strings.TrimSpace(l)] {
			return false
		}
	}
	return true
}
