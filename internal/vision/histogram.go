package vision

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// Channel keys reported by CompareColors.
const (
	ChannelRed   = "red"
	ChannelGreen = "green"
	ChannelBlue  = "blue"
)

// ChannelNames returns the channel keys in R, G, B order.
func ChannelNames() []string {
	return []string{ChannelRed, ChannelGreen, ChannelBlue}
}

// ColorResult is the histogram similarity of two images.
type ColorResult struct {
	// Overall is the mean of the channel correlations.
	Overall float64

	// Channels maps a channel key to its correlation in [-1, 1].
	Channels map[string]float64
}

// CompareColors correlates the 256-bin histograms of each RGB channel.
// The images may differ in size; histograms are normalised first.
func CompareColors(left, right image.Image) (*ColorResult, error) {
	if left == nil || right == nil || left.Bounds().Empty() || right.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	hl := histograms(left)
	hr := histograms(right)

	res := &ColorResult{Channels: make(map[string]float64, 3)}
	for i, name := range ChannelNames() {
		a := normalizeL2(hl[i])
		b := normalizeL2(hr[i])
		c := correlation(a, b)
		res.Channels[name] = c
		res.Overall += c
	}
	res.Overall /= 3
	return res, nil
}

func histograms(img image.Image) [3][256]float64 {
	var h [3][256]float64
	src := imaging.Clone(img)
	for i := 0; i < len(src.Pix); i += 4 {
		h[0][src.Pix[i]]++
		h[1][src.Pix[i+1]]++
		h[2][src.Pix[i+2]]++
	}
	return h
}

func normalizeL2(h [256]float64) [256]float64 {
	var sum float64
	for _, v := range h {
		sum += v * v
	}
	if sum == 0 {
		return h
	}
	n := math.Sqrt(sum)
	for i := range h {
		h[i] /= n
	}
	return h
}

const dblEpsilon = 2.220446049250313e-16

// correlation is Pearson's r between two histograms. Two flat histograms
// have no variance and are reported as identical.
func correlation(a, b [256]float64) float64 {
	var ma, mb float64
	for i := range a {
		ma += a[i]
		mb += b[i]
	}
	ma /= 256
	mb /= 256

	var s12, s11, s22 float64
	for i := range a {
		da := a[i] - ma
		db := b[i] - mb
		s12 += da * db
		s11 += da * da
		s22 += db * db
	}
	den := s11 * s22
	if math.Abs(den) <= dblEpsilon {
		return 1
	}
	return s12 / math.Sqrt(den)
}
