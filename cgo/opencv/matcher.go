//go:build cgo && opencv

package opencv

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/vision"
	"github.com/custodia-labs/proofcheck/internal/vision/features"
)

// Ensure Matcher implements the interface.
var _ driven.FeatureMatcher = (*Matcher)(nil)

// Name identifies the OpenCV matcher.
const Name = "orb-opencv"

// Available reports whether OpenCV is compiled in.
func Available() bool { return true }

// Matcher runs ORB detection and brute-force Hamming kNN matching.
type Matcher struct {
	maxKeypoints int
	ratio        float64
}

// New creates a matcher. Non-positive arguments use the defaults.
func New(maxKeypoints int, ratio float64) *Matcher {
	if maxKeypoints <= 0 {
		maxKeypoints = 2000
	}
	if ratio <= 0 {
		ratio = 0.75
	}
	return &Matcher{maxKeypoints: maxKeypoints, ratio: ratio}
}

// Name returns the matcher name.
func (m *Matcher) Name() string { return Name }

// Capability reports the OpenCV version.
func (m *Matcher) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityFeatures,
		Available: true,
		Detail:    "OpenCV " + gocv.OpenCVVersion(),
	}
}

// Match detects keypoints on both images and keeps kNN matches that
// pass the ratio test.
func (m *Matcher) Match(ctx context.Context, left, right image.Image) (domain.FeatureResult, error) {
	if left == nil || right == nil {
		return domain.FeatureResult{}, fmt.Errorf("%w: nil image", domain.ErrInvalidInput)
	}

	matL, err := gocv.ImageGrayToMatGray(vision.ToGray(left))
	if err != nil {
		return domain.FeatureResult{}, err
	}
	defer matL.Close()
	matR, err := gocv.ImageGrayToMatGray(vision.ToGray(right))
	if err != nil {
		return domain.FeatureResult{}, err
	}
	defer matR.Close()

	orb := gocv.NewORBWithParams(m.maxKeypoints, 1.2, 8, 31, 0, 2, gocv.ORBScoreTypeHarris, 31, 20)
	defer orb.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	kpL, descL := orb.DetectAndCompute(matL, mask)
	defer descL.Close()
	if err := ctx.Err(); err != nil {
		return domain.FeatureResult{}, err
	}
	kpR, descR := orb.DetectAndCompute(matR, mask)
	defer descR.Close()

	res := domain.FeatureResult{
		Available:      true,
		KeypointsLeft:  len(kpL),
		KeypointsRight: len(kpR),
	}
	if len(kpL) < 2 || len(kpR) < 2 || descL.Empty() || descR.Empty() {
		return res, nil
	}

	bf := gocv.NewBFMatcherWithParams(gocv.NormHamming, false)
	defer bf.Close()

	var good []features.Match
	for _, pair := range bf.KnnMatch(descL, descR, 2) {
		if len(pair) < 2 {
			continue
		}
		if pair[0].Distance < m.ratio*pair[1].Distance {
			good = append(good, features.Match{
				Left:     pair[0].QueryIdx,
				Right:    pair[0].TrainIdx,
				Distance: int(pair[0].Distance),
			})
		}
	}

	res.GoodMatches = len(good)
	res.Score = features.Score(len(good), len(kpL), len(kpR))
	res.Visualization = features.DrawMatches(left, keypoints(kpL), right, keypoints(kpR), good)
	return res, nil
}

func keypoints(kps []gocv.KeyPoint) []features.Keypoint {
	out := make([]features.Keypoint, len(kps))
	for i, k := range kps {
		out[i] = features.Keypoint{X: k.X, Y: k.Y, Angle: k.Angle, Response: k.Response, Level: k.Octave}
	}
	return out
}
