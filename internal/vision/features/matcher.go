package features

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/vision"
)

// Ensure Matcher implements the interface.
var _ driven.FeatureMatcher = (*Matcher)(nil)

const (
	// Name identifies the pure Go matcher.
	Name = "orb-go"

	maxDrawnMatches = 100
)

var (
	matchColor = color.NRGBA{G: 255, A: 255}
)

// Match pairs a left keypoint index with a right keypoint index.
type Match struct {
	Left, Right int
	Distance    int
}

// Matcher is the pure Go feature matcher.
type Matcher struct {
	opts  DetectorOptions
	ratio float64
}

// New creates a matcher. maxKeypoints and ratio fall back to defaults
// when not positive.
func New(maxKeypoints int, ratio float64) *Matcher {
	opts := DefaultDetectorOptions()
	if maxKeypoints > 0 {
		opts.MaxKeypoints = maxKeypoints
	}
	if ratio <= 0 {
		ratio = 0.75
	}
	return &Matcher{opts: opts, ratio: ratio}
}

// Name returns the matcher name.
func (m *Matcher) Name() string {
	return Name
}

// Capability reports the pure Go matcher, which is always available.
func (m *Matcher) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{
		Name:      Name,
		Kind:      domain.CapabilityFeatures,
		Available: true,
		Detail:    "built in",
	}
}

// Match detects, describes and matches keypoints on both images.
func (m *Matcher) Match(ctx context.Context, left, right image.Image) (domain.FeatureResult, error) {
	if left == nil || right == nil {
		return domain.FeatureResult{}, fmt.Errorf("%w: nil image", domain.ErrInvalidInput)
	}

	kpL, dL := Extract(left, m.opts)
	if err := ctx.Err(); err != nil {
		return domain.FeatureResult{}, err
	}
	kpR, dR := Extract(right, m.opts)

	res := domain.FeatureResult{
		Available:      true,
		KeypointsLeft:  len(kpL),
		KeypointsRight: len(kpR),
	}
	if len(kpL) < 2 || len(kpR) < 2 {
		return res, nil
	}

	good := RatioMatches(dL, dR, m.ratio)
	res.GoodMatches = len(good)
	res.Score = Score(len(good), len(kpL), len(kpR))
	res.Visualization = DrawMatches(left, kpL, right, kpR, good)
	return res, nil
}

// RatioMatches finds each left descriptor's two nearest right descriptors
// and keeps the match when best < ratio * second.
func RatioMatches(left, right []Descriptor, ratio float64) []Match {
	if len(right) < 2 {
		return nil
	}
	var good []Match
	for i, d := range left {
		best, second := math.MaxInt, math.MaxInt
		bestIdx := -1
		for j, o := range right {
			dist := d.Hamming(o)
			switch {
			case dist < best:
				second = best
				best, bestIdx = dist, j
			case dist < second:
				second = dist
			}
		}
		if float64(best) < ratio*float64(second) {
			good = append(good, Match{Left: i, Right: bestIdx, Distance: best})
		}
	}
	return good
}

// Score is good / min(left, right), clamped to 1.
func Score(good, left, right int) float64 {
	n := min(left, right)
	if n <= 0 {
		return 0
	}
	return math.Min(float64(good)/float64(n), 1)
}

// DrawMatches draws the best matches as lines between the two images
// placed side by side.
func DrawMatches(left image.Image, kpL []Keypoint, right image.Image, kpR []Keypoint, matches []Match) *image.NRGBA {
	canvas, offset := vision.SideBySide(left, right)

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Distance < sorted[j].Distance })
	if len(sorted) > maxDrawnMatches {
		sorted = sorted[:maxDrawnMatches]
	}

	for _, mt := range sorted {
		a := kpL[mt.Left]
		b := kpR[mt.Right]
		pa := image.Pt(int(a.X), int(a.Y))
		pb := image.Pt(int(b.X)+offset, int(b.Y))
		vision.DrawCircle(canvas, pa, 4, matchColor)
		vision.DrawCircle(canvas, pb, 4, matchColor)
		vision.DrawLine(canvas, pa, pb, matchColor)
	}
	return canvas
}
