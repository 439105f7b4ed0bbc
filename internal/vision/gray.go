package vision

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts an image to 8-bit luma using BT.601 weights
// with the same fixed-point rounding as OpenCV's RGB2GRAY.
func ToGray(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < b.Dx(); x++ {
			r := uint32(src.Pix[si])
			g := uint32(src.Pix[si+1])
			bl := uint32(src.Pix[si+2])
			dst.Pix[di+x] = uint8((r*4899 + g*9617 + bl*1868 + 8192) >> 14)
			si += 4
		}
	}
	return dst
}

// absDiff returns |a-b| per pixel. Both images must share bounds.
func absDiff(a, b *image.Gray) *image.Gray {
	out := image.NewGray(a.Rect)
	for i := range a.Pix {
		pa, pb := a.Pix[i], b.Pix[i]
		if pa > pb {
			out.Pix[i] = pa - pb
		} else {
			out.Pix[i] = pb - pa
		}
	}
	return out
}

// threshold sets pixels strictly above t to 255 and the rest to 0.
func threshold(img *image.Gray, t uint8) *image.Gray {
	out := image.NewGray(img.Rect)
	for i, v := range img.Pix {
		if v > t {
			out.Pix[i] = 255
		}
	}
	return out
}
