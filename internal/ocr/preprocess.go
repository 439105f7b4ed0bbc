package ocr

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/vision"
)

// PreprocessOptions tunes the preprocessing pipeline.
type PreprocessOptions struct {
	// MinLongEdge is the long edge smaller images are upscaled to.
	// Zero disables upscaling.
	MinLongEdge int

	// Denoise enables the 3x3 median filter.
	Denoise bool

	ClipLimit float64
	TileGrid  int

	// BlockSize and C configure the adaptive Gaussian threshold.
	BlockSize int
	C         int

	// Deskew is applied only when MinSkew < |angle| < MaxSkew degrees.
	MinSkew float64
	MaxSkew float64

	// MinForeground is the dark pixel count needed to estimate skew.
	MinForeground int
}

// DefaultPreprocessOptions returns the pipeline defaults.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		MinLongEdge:   1500,
		Denoise:       true,
		ClipLimit:     2.0,
		TileGrid:      8,
		BlockSize:     31,
		C:             10,
		MinSkew:       0.5,
		MaxSkew:       15,
		MinForeground: 100,
	}
}

// Preprocess prepares a page bitmap for recognition.
func Preprocess(img image.Image, opts PreprocessOptions) *image.Gray {
	gray := vision.ToGray(img)
	gray = upscale(gray, opts.MinLongEdge)
	if opts.Denoise {
		gray = median3(gray)
	}
	if opts.TileGrid > 0 && opts.ClipLimit > 0 {
		gray = clahe(gray, opts.ClipLimit, opts.TileGrid)
	}
	binary := adaptiveThreshold(gray, opts.BlockSize, opts.C)
	return deskew(binary, opts)
}

func upscale(g *image.Gray, minLong int) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	long := max(w, h)
	if minLong <= 0 || long == 0 || long >= minLong {
		return g
	}
	scale := float64(minLong) / float64(long)
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return vision.ToGray(imaging.Resize(g, nw, nh, imaging.CatmullRom))
}

// median3 applies a 3x3 median filter with replicated borders.
func median3(g *image.Gray) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	var win [9]uint8
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				yy := clampInt(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					xx := clampInt(x+dx, 0, w-1)
					win[n] = g.Pix[yy*g.Stride+xx]
					n++
				}
			}
			// Insertion sort; nine elements.
			for i := 1; i < 9; i++ {
				for j := i; j > 0 && win[j-1] > win[j]; j-- {
					win[j-1], win[j] = win[j], win[j-1]
				}
			}
			out.Pix[y*out.Stride+x] = win[4]
		}
	}
	return out
}

// clahe applies contrast-limited adaptive histogram equalisation over a
// grid x grid tiling with bilinear interpolation between tile mappings.
func clahe(g *image.Gray, clipLimit float64, grid int) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if w < grid || h < grid {
		return g
	}
	tw := (w + grid - 1) / grid
	th := (h + grid - 1) / grid

	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			r := image.Rect(tx*tw, ty*th, min((tx+1)*tw, w), min((ty+1)*th, h))
			luts[ty*grid+tx] = tileLUT(g, r, clipLimit)
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/float64(th) - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		y1 := min(y0+1, grid-1)
		y0 = max(y0, 0)
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tw) - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			x1 := min(x0+1, grid-1)
			x0 = max(x0, 0)

			v := g.Pix[y*g.Stride+x]
			top := (1-wx)*float64(luts[y0*grid+x0][v]) + wx*float64(luts[y0*grid+x1][v])
			bot := (1-wx)*float64(luts[y1*grid+x0][v]) + wx*float64(luts[y1*grid+x1][v])
			out.Pix[y*out.Stride+x] = uint8(math.Round((1-wy)*top + wy*bot))
		}
	}
	return out
}

func tileLUT(g *image.Gray, r image.Rectangle, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			hist[g.Pix[y*g.Stride+x]]++
		}
	}
	area := r.Dx() * r.Dy()
	var lut [256]uint8
	if area == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	limit := max(int(clipLimit*float64(area)/256), 1)
	excess := 0
	for i, c := range hist {
		if c > limit {
			excess += c - limit
			hist[i] = limit
		}
	}
	bonus := excess / 256
	residual := excess % 256
	for i := range hist {
		hist[i] += bonus
		if i < residual {
			hist[i]++
		}
	}

	scale := 255.0 / float64(area)
	sum := 0
	for i, c := range hist {
		sum += c
		lut[i] = uint8(min(math.Round(float64(sum)*scale), 255))
	}
	return lut
}

// adaptiveThreshold sets a pixel white when it is brighter than the
// Gaussian-weighted mean of its block minus c.
func adaptiveThreshold(g *image.Gray, block, c int) *image.Gray {
	if block < 3 {
		block = 3
	}
	// Kernel sigma for a block size, as used by OpenCV.
	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	mean := vision.ToGray(imaging.Blur(g, sigma))

	out := image.NewGray(g.Rect)
	for y := 0; y < g.Rect.Dy(); y++ {
		for x := 0; x < g.Rect.Dx(); x++ {
			v := int(g.Pix[y*g.Stride+x])
			m := int(mean.Pix[y*mean.Stride+x])
			if v > m-c {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// deskew straightens binary text when the estimated skew is inside
// the configured band. The output keeps the input size.
func deskew(binary *image.Gray, opts PreprocessOptions) *image.Gray {
	angle, ok := SkewAngle(binary, opts.MinForeground)
	if !ok {
		return binary
	}
	a := math.Abs(angle)
	if a <= opts.MinSkew || a >= opts.MaxSkew {
		return binary
	}
	w, h := binary.Rect.Dx(), binary.Rect.Dy()
	rotated := imaging.Rotate(binary, angle, color.White)
	return vision.ToGray(imaging.CropCenter(rotated, w, h))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
