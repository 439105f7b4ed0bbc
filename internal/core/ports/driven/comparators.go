package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// FeatureMatcher computes the keypoint matching signal for two images.
// Fewer than two keypoints on either side is a zero score, not an error.
type FeatureMatcher interface {
	// Name identifies the implementation.
	Name() string

	Match(ctx context.Context, left, right image.Image) (domain.FeatureResult, error)

	// Capability reports whether the matcher can be used on this machine.
	Capability() domain.CapabilityStatus
}
