package vision

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Normalize resizes both images to the larger of the two widths.
// Each height is scaled by its own ratio and truncated, so aspect
// ratios are kept and the heights may differ.
func Normalize(left, right image.Image) (*image.NRGBA, *image.NRGBA) {
	w1 := left.Bounds().Dx()
	w2 := right.Bounds().Dx()
	target := max(w1, w2)
	return resizeToWidth(left, target), resizeToWidth(right, target)
}

func resizeToWidth(img image.Image, width int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width {
		return imaging.Clone(img)
	}
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Canvases places both images at (0,0) on white canvases of the
// maximum width and height. The results always have equal bounds.
func Canvases(left, right image.Image) (*image.NRGBA, *image.NRGBA) {
	lb, rb := left.Bounds(), right.Bounds()
	w := max(lb.Dx(), rb.Dx())
	h := max(lb.Dy(), rb.Dy())
	return onCanvas(left, w, h), onCanvas(right, w, h)
}

func onCanvas(img image.Image, w, h int) *image.NRGBA {
	canvas := imaging.New(w, h, color.White)
	return imaging.Paste(canvas, img, image.Pt(0, 0))
}

// NormalizedCanvases runs Normalize then Canvases.
func NormalizedCanvases(left, right image.Image) (*image.NRGBA, *image.NRGBA) {
	l, r := Normalize(left, right)
	return Canvases(l, r)
}
