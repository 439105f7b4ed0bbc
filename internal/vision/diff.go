package vision

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// DiffOptions tunes the difference detector.
type DiffOptions struct {
	// Threshold is the grey-level difference a pixel must exceed.
	Threshold int

	// MinArea is the smallest area a region's outline must enclose to be
	// reported, in square pixels. One pixel wide slivers enclose 0.
	MinArea int
}

// DefaultDiffOptions returns the detector defaults.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Threshold: 10, MinArea: 2}
}

// DiffResult is the output of DetectDifferences.
type DiffResult struct {
	// Overlay is the left canvas with numbered regions drawn on it.
	Overlay *image.NRGBA

	// Regions are ordered by descending area with 1-based labels.
	Regions []domain.DifferenceRegion

	NormalizedLeft  *image.NRGBA
	NormalizedRight *image.NRGBA
}

// DetectDifferences normalises both pages onto shared canvases and
// returns the regions where they differ.
func DetectDifferences(left, right image.Image, opts DiffOptions) (*DiffResult, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: nil image", domain.ErrInvalidInput)
	}
	if left.Bounds().Empty() || right.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if opts.Threshold < 0 || opts.Threshold > 254 {
		return nil, fmt.Errorf("%w: threshold %d", domain.ErrInvalidInput, opts.Threshold)
	}

	lc, rc := NormalizedCanvases(left, right)
	regions, err := FindRegions(lc, rc, opts)
	if err != nil {
		return nil, err
	}

	return &DiffResult{
		Overlay:         DrawRegions(lc, regions),
		Regions:         regions,
		NormalizedLeft:  lc,
		NormalizedRight: rc,
	}, nil
}

// FindRegions compares two canvases of identical size.
func FindRegions(left, right image.Image, opts DiffOptions) ([]domain.DifferenceRegion, error) {
	if !left.Bounds().Size().Eq(right.Bounds().Size()) {
		return nil, errors.New("canvases differ in size")
	}

	mask := threshold(absDiff(ToGray(left), ToGray(right)), uint8(opts.Threshold))
	mask = erode3(dilate3(mask))

	var regions []domain.DifferenceRegion
	for _, c := range components(mask) {
		if c.area < float64(opts.MinArea) {
			continue
		}
		b := c.bounds()
		regions = append(regions, domain.DifferenceRegion{
			X:      b.Min.X,
			Y:      b.Min.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
		})
	}

	// Stable so equal areas keep top-to-bottom scan order.
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area() > regions[j].Area()
	})
	for i := range regions {
		regions[i].Label = i + 1
	}
	return regions, nil
}
