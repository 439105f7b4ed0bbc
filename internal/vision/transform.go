package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// Rotate turns img clockwise by a quarter-turn multiple.
func Rotate(img image.Image, r domain.Rotation) (image.Image, error) {
	switch r {
	case domain.Rotate0:
		return img, nil
	case domain.Rotate90:
		// imaging rotates counter-clockwise.
		return imaging.Rotate270(img), nil
	case domain.Rotate180:
		return imaging.Rotate180(img), nil
	case domain.Rotate270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("%w: rotation %d", domain.ErrInvalidInput, r)
	}
}

// Crop returns the part of img inside roi, given relative to the top-left
// corner. An roi that does not overlap the image is an error.
func Crop(img image.Image, roi image.Rectangle) (image.Image, error) {
	b := img.Bounds()
	abs := roi.Add(b.Min).Intersect(b)
	if abs.Empty() {
		return nil, fmt.Errorf("%w: region %v outside page %dx%d", domain.ErrInvalidInput, roi, b.Dx(), b.Dy())
	}
	return imaging.Crop(img, abs), nil
}

// Blank returns a white image the size of img.
func Blank(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return imaging.New(b.Dx(), b.Dy(), color.White)
}

// SideBySide places two images next to each other on a white canvas.
// It returns the canvas and the x offset of the right image.
func SideBySide(left, right image.Image) (*image.NRGBA, int) {
	lb, rb := left.Bounds(), right.Bounds()
	canvas := imaging.New(lb.Dx()+rb.Dx(), max(lb.Dy(), rb.Dy()), color.White)
	canvas = imaging.Paste(canvas, left, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, right, image.Pt(lb.Dx(), 0))
	return canvas, lb.Dx()
}
