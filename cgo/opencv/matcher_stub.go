//go:build !cgo || !opencv

package opencv

import (
	"context"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure Matcher implements the interface.
var _ driven.FeatureMatcher = (*Matcher)(nil)

// Name identifies the OpenCV matcher.
const Name = "orb-opencv"

// Available reports whether OpenCV is compiled in.
func Available() bool { return false }

// Matcher is a stub for builds without OpenCV.
type Matcher struct{}

// New creates a stub matcher.
func New(_ int, _ float64) *Matcher {
	return &Matcher{}
}

// Name returns the matcher name.
func (m *Matcher) Name() string { return Name }

// Capability reports the matcher as unavailable.
func (m *Matcher) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:    Name,
		Kind:    domain.CapabilityFeatures,
		Detail:  "built without OpenCV",
		Install: "Install OpenCV 4 and rebuild with: go build -tags opencv ./cmd/proofcheck",
	}
}

// Match always fails with ErrCapabilityUnavailable.
func (m *Matcher) Match(_ context.Context, _, _ image.Image) (domain.FeatureResult, error) {
	return domain.FeatureResult{}, domain.ErrCapabilityUnavailable
}
