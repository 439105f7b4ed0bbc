package features

import (
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/vision"
)

const (
	fastThreshold = 20
	fastArc       = 9
	harrisBlock   = 7
	harrisK       = 0.04

	// patchRadius is the orientation and descriptor patch radius.
	patchRadius = 15

	// border keeps rotated descriptor samples inside the image.
	border = 22
)

// Keypoint is a detected corner in level-0 pixel coordinates.
type Keypoint struct {
	X, Y     float64
	Level    int
	Angle    float64
	Response float64

	// lx, ly are the coordinates on the keypoint's pyramid level.
	lx, ly int
}

// DetectorOptions tunes keypoint detection.
type DetectorOptions struct {
	MaxKeypoints int
	Levels       int
	ScaleFactor  float64
}

// DefaultDetectorOptions mirrors a stock ORB detector.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{MaxKeypoints: 2000, Levels: 3, ScaleFactor: 1.2}
}

type level struct {
	gray   *image.Gray
	smooth *image.Gray
	scale  float64
}

func buildPyramid(img image.Image, opts DetectorOptions) []level {
	base := vision.ToGray(img)
	levels := make([]level, 0, opts.Levels)
	scale := 1.0
	for l := 0; l < opts.Levels; l++ {
		var g *image.Gray
		if l == 0 {
			g = base
		} else {
			w := int(math.Round(float64(base.Rect.Dx()) / scale))
			h := int(math.Round(float64(base.Rect.Dy()) / scale))
			if w <= 2*border || h <= 2*border {
				break
			}
			g = vision.ToGray(imaging.Resize(base, w, h, imaging.Linear))
		}
		levels = append(levels, level{
			gray:   g,
			smooth: vision.ToGray(imaging.Blur(g, 2)),
			scale:  scale,
		})
		scale *= opts.ScaleFactor
	}
	return levels
}

// levelQuotas splits max keypoints across levels, favouring finer levels.
func levelQuotas(total, levels int, factor float64) []int {
	quotas := make([]int, levels)
	f := 1 / factor
	per := float64(total) * (1 - f) / (1 - math.Pow(f, float64(levels)))
	sum := 0
	for l := 0; l < levels-1; l++ {
		quotas[l] = int(math.Round(per))
		sum += quotas[l]
		per *= f
	}
	quotas[levels-1] = max(total-sum, 0)
	return quotas
}

// detect finds up to opts.MaxKeypoints oriented keypoints.
func detect(img image.Image, opts DetectorOptions) ([]Keypoint, []level) {
	levels := buildPyramid(img, opts)
	if len(levels) == 0 {
		return nil, nil
	}
	quotas := levelQuotas(opts.MaxKeypoints, len(levels), opts.ScaleFactor)

	var all []Keypoint
	for li, lv := range levels {
		kps := fastCorners(lv.gray)
		for i := range kps {
			kps[i].Response = harris(lv.gray, kps[i].lx, kps[i].ly)
		}
		sort.Slice(kps, func(a, b int) bool { return kps[a].Response > kps[b].Response })
		if len(kps) > quotas[li] {
			kps = kps[:quotas[li]]
		}
		for i := range kps {
			kps[i].Level = li
			kps[i].X = float64(kps[i].lx) * lv.scale
			kps[i].Y = float64(kps[i].ly) * lv.scale
			kps[i].Angle = orientation(lv.gray, kps[i].lx, kps[i].ly)
		}
		all = append(all, kps...)
	}
	return all, levels
}

// circle is the 16-pixel Bresenham ring of radius 3 used by FAST.
var circle = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1}, {3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1}, {-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// fastCorners runs FAST-9 with 3x3 non-maximum suppression on the
// sum-of-differences score.
func fastCorners(g *image.Gray) []Keypoint {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if w <= 2*border || h <= 2*border {
		return nil
	}
	scores := make([]int, w*h)
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			scores[y*w+x] = fastScore(g, x, y)
		}
	}

	var out []Keypoint
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			s := scores[y*w+x]
			if s == 0 || !isLocalMax(scores, w, x, y, s) {
				continue
			}
			out = append(out, Keypoint{lx: x, ly: y})
		}
	}
	return out
}

func isLocalMax(scores []int, w, x, y, s int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := scores[(y+dy)*w+x+dx]
			// Ties break towards the earlier pixel in scan order.
			if n > s || (n == s && (dy < 0 || (dy == 0 && dx < 0))) {
				return false
			}
		}
	}
	return true
}

// fastScore returns 0 for non-corners, else the sum of absolute
// differences of the ring pixels beyond the threshold.
func fastScore(g *image.Gray, x, y int) int {
	p := int(g.Pix[y*g.Stride+x])
	var ring [16]int
	for i, o := range circle {
		ring[i] = int(g.Pix[(y+o[1])*g.Stride+x+o[0]])
	}

	// Quick reject on the four compass points.
	bright, dark := 0, 0
	for _, i := range [4]int{0, 4, 8, 12} {
		if ring[i] > p+fastThreshold {
			bright++
		} else if ring[i] < p-fastThreshold {
			dark++
		}
	}
	if bright < 2 && dark < 2 {
		return 0
	}

	if !hasArc(ring, func(v int) bool { return v > p+fastThreshold }) &&
		!hasArc(ring, func(v int) bool { return v < p-fastThreshold }) {
		return 0
	}

	score := 0
	for _, v := range ring {
		d := v - p
		if d < 0 {
			d = -d
		}
		if d > fastThreshold {
			score += d - fastThreshold
		}
	}
	return score
}

func hasArc(ring [16]int, pass func(int) bool) bool {
	run := 0
	for i := 0; i < 16+fastArc-1; i++ {
		if pass(ring[i%16]) {
			run++
			if run >= fastArc {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// harris computes the Harris corner response over a block around (x, y)
// using Sobel gradients.
func harris(g *image.Gray, x, y int) float64 {
	r := harrisBlock / 2
	var a, b, c float64
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			px, py := x+dx, y+dy
			ix := float64(sobelX(g, px, py))
			iy := float64(sobelY(g, px, py))
			a += ix * ix
			b += iy * iy
			c += ix * iy
		}
	}
	return a*b - c*c - harrisK*(a+b)*(a+b)
}

func at(g *image.Gray, x, y int) int {
	return int(g.Pix[y*g.Stride+x])
}

func sobelX(g *image.Gray, x, y int) int {
	return at(g, x+1, y-1) + 2*at(g, x+1, y) + at(g, x+1, y+1) -
		at(g, x-1, y-1) - 2*at(g, x-1, y) - at(g, x-1, y+1)
}

func sobelY(g *image.Gray, x, y int) int {
	return at(g, x-1, y+1) + 2*at(g, x, y+1) + at(g, x+1, y+1) -
		at(g, x-1, y-1) - 2*at(g, x, y-1) - at(g, x+1, y-1)
}

// orientation returns the intensity-centroid angle of a circular patch.
func orientation(g *image.Gray, x, y int) float64 {
	var m01, m10 int
	for dy := -patchRadius; dy <= patchRadius; dy++ {
		for dx := -patchRadius; dx <= patchRadius; dx++ {
			if dx*dx+dy*dy > patchRadius*patchRadius {
				continue
			}
			v := at(g, x+dx, y+dy)
			m10 += dx * v
			m01 += dy * v
		}
	}
	return math.Atan2(float64(m01), float64(m10))
}
