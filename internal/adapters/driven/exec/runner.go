// Package exec runs external command-line tools for adapters that
// shell out, such as the poppler document opener and the tesseract
// OCR backend.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes programs with os/exec.
type Runner struct{}

// NewRunner creates a command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes name with args and returns standard output.
// A failing command's standard error is included in the error.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, osexec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// LookPath reports where name is installed.
func (r *Runner) LookPath(name string) (string, error) {
	path, err := osexec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrToolNotFound, name)
	}
	return path, nil
}
