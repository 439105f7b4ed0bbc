// Package document selects and opens paged documents.
//
// Openers are registered with a priority. For each file the available
// opener with the highest priority for its format is tried first and
// lower priority openers are tried when it fails.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry dispatches files to document openers by format.
type Registry struct {
	mu      sync.RWMutex
	openers []driven.DocumentOpener
	log     *logger.Logger
}

// NewRegistry creates a registry with the given openers.
func NewRegistry(log *logger.Logger, openers ...driven.DocumentOpener) *Registry {
	r := &Registry{log: log}
	for _, o := range openers {
		r.Register(o)
	}
	return r
}

// Register adds an opener to the registry.
func (r *Registry) Register(opener driven.DocumentOpener) {
	if opener == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers = append(r.openers, opener)
	sort.SliceStable(r.openers, func(i, j int) bool {
		return r.openers[i].Priority() > r.openers[j].Priority()
	})
}

// Open opens path with the best available opener for its format.
func (r *Registry) Open(ctx context.Context, path string) (driven.Document, error) {
	format, ok := domain.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentLoad, err)
	}

	candidates := r.candidates(format)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no %s reader installed", domain.ErrCapabilityUnavailable, format)
	}

	var errs []error
	for _, o := range candidates {
		doc, err := o.Open(ctx, path)
		if err == nil {
			r.log.Debug("Opened %s with %s (%d pages)", path, o.Name(), doc.PageCount())
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warn("%s could not open %s: %v", o.Name(), path, err)
		errs = append(errs, fmt.Errorf("%s: %w", o.Name(), err))
	}
	return nil, errors.Join(errs...)
}

func (r *Registry) candidates(format domain.DocumentFormat) []driven.DocumentOpener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []driven.DocumentOpener
	for _, o := range r.openers {
		if slices.Contains(o.SupportedFormats(), format) && o.Capability().Available {
			out = append(out, o)
		}
	}
	return out
}

// Capabilities reports the status of every registered opener.
func (r *Registry) Capabilities() []domain.CapabilityStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CapabilityStatus, 0, len(r.openers))
	for _, o := range r.openers {
		out = append(out, o.Capability())
	}
	return out
}
