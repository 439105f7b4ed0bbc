package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

type backendState struct {
	backend driven.OCRBackend
	once    sync.Once
	err     error
}

// Extractor preprocesses a page and runs it through the backend chain.
// Each backend is initialised at most once and reused across pages.
type Extractor struct {
	backends []*backendState
	opts     PreprocessOptions
	log      *logger.Logger
}

// NewExtractor creates an extractor trying backends in order.
func NewExtractor(backends []driven.OCRBackend, opts PreprocessOptions, log *logger.Logger) *Extractor {
	states := make([]*backendState, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			states = append(states, &backendState{backend: b})
		}
	}
	return &Extractor{backends: states, opts: opts, log: log}
}

// Backends returns the backend names in fallback order.
func (e *Extractor) Backends() []string {
	names := make([]string, len(e.backends))
	for i, s := range e.backends {
		names[i] = s.backend.Name()
	}
	return names
}

// Extract returns the text of img, or an absent value when no backend
// produced any.
func (e *Extractor) Extract(ctx context.Context, img image.Image) domain.OptionalText {
	if img == nil || img.Bounds().Empty() || len(e.backends) == 0 {
		return domain.NoText()
	}

	pre := Preprocess(img, e.opts)

	for _, s := range e.backends {
		if ctx.Err() != nil {
			return domain.NoText()
		}
		name := s.backend.Name()

		s.once.Do(func() {
			s.err = s.backend.Init(ctx)
			if s.err != nil {
				e.log.Warn("ocr backend %s unavailable: %v", name, s.err)
			}
		})
		if s.err != nil {
			continue
		}

		text, err := s.backend.Recognize(ctx, pre)
		if err != nil {
			e.log.Warn("ocr backend %s failed: %v", name, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			e.log.Debug("ocr backend %s returned no text", name)
			continue
		}
		e.log.Debug("ocr backend %s: %d chars", name, len(text))
		return domain.SomeText(text)
	}
	return domain.NoText()
}

// Capabilities reports the status of every backend.
func (e *Extractor) Capabilities() []domain.CapabilityStatus {
	out := make([]domain.CapabilityStatus, len(e.backends))
	for i, s := range e.backends {
		out[i] = s.backend.Capability()
	}
	return out
}

// Close releases every backend.
func (e *Extractor) Close() error {
	var errs []error
	for _, s := range e.backends {
		if err := s.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
