package vision

import (
	"fmt"
	"image"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
	ssimRange  = 255.0
)

// SSIMResult is the structural similarity of two canvases.
type SSIMResult struct {
	// Score is the mean of the SSIM map, excluding a border of half a window,
	// clamped to [0, 1]. Anti-correlated pages score 0.
	Score float64

	// DiffMap is (1 - ssim) * 255 on the heat ramp; hotter means more different.
	DiffMap *image.NRGBA
}

// SSIM computes grayscale structural similarity with a 7x7 uniform
// window, sample covariance and reflected borders.
// Both images must have the same size of at least 7x7.
func SSIM(left, right image.Image) (*SSIMResult, error) {
	lb, rb := left.Bounds(), right.Bounds()
	if !lb.Size().Eq(rb.Size()) {
		return nil, fmt.Errorf("%w: ssim needs equal sizes, got %v and %v", domain.ErrInvalidInput, lb.Size(), rb.Size())
	}
	w, h := lb.Dx(), lb.Dy()
	if w < ssimWindow || h < ssimWindow {
		return nil, fmt.Errorf("%w: ssim needs at least %dx%d pixels", domain.ErrInvalidInput, ssimWindow, ssimWindow)
	}

	gx := ToGray(left)
	gy := ToGray(right)

	const (
		half    = ssimWindow / 2
		np      = ssimWindow * ssimWindow
		covNorm = float64(np) / float64(np-1)
		c1      = (ssimK1 * ssimRange) * (ssimK1 * ssimRange)
		c2      = (ssimK2 * ssimRange) * (ssimK2 * ssimRange)
	)

	// Column sums over the current window of rows, per x.
	colX := make([]int64, w)
	colY := make([]int64, w)
	colXX := make([]int64, w)
	colYY := make([]int64, w)
	colXY := make([]int64, w)

	addRow := func(row int, sign int64) {
		ox := row * gx.Stride
		oy := row * gy.Stride
		for x := 0; x < w; x++ {
			a := int64(gx.Pix[ox+x])
			b := int64(gy.Pix[oy+x])
			colX[x] += sign * a
			colY[x] += sign * b
			colXX[x] += sign * a * a
			colYY[x] += sign * b * b
			colXY[x] += sign * a * b
		}
	}
	for dy := -half; dy <= half; dy++ {
		addRow(reflect(dy, h), 1)
	}

	diff := image.NewGray(image.Rect(0, 0, w, h))
	var total float64
	var counted int

	for y := 0; y < h; y++ {
		if y > 0 {
			addRow(reflect(y-half-1, h), -1)
			addRow(reflect(y+half, h), 1)
		}

		var sx, sy, sxx, syy, sxy int64
		for dx := -half; dx <= half; dx++ {
			c := reflect(dx, w)
			sx += colX[c]
			sy += colY[c]
			sxx += colXX[c]
			syy += colYY[c]
			sxy += colXY[c]
		}

		for x := 0; x < w; x++ {
			if x > 0 {
				out := reflect(x-half-1, w)
				in := reflect(x+half, w)
				sx += colX[in] - colX[out]
				sy += colY[in] - colY[out]
				sxx += colXX[in] - colXX[out]
				syy += colYY[in] - colYY[out]
				sxy += colXY[in] - colXY[out]
			}

			ux := float64(sx) / np
			uy := float64(sy) / np
			vx := covNorm * (float64(sxx)/np - ux*ux)
			vy := covNorm * (float64(syy)/np - uy*uy)
			vxy := covNorm * (float64(sxy)/np - ux*uy)

			s := ((2*ux*uy + c1) * (2*vxy + c2)) / ((ux*ux + uy*uy + c1) * (vx + vy + c2))

			if y >= half && y < h-half && x >= half && x < w-half {
				total += s
				counted++
			}
			diff.Pix[y*diff.Stride+x] = clampByte((1 - s) * 255)
		}
	}

	return &SSIMResult{
		Score:   min(max(total/float64(counted), 0), 1),
		DiffMap: Colorize(diff),
	}, nil
}

// reflect maps an out-of-range index back into [0, n) by mirroring
// about the edge (d c b a | a b c d).
func reflect(i, n int) int {
	if i < 0 {
		return -i - 1
	}
	if i >= n {
		return 2*n - i - 1
	}
	return i
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
