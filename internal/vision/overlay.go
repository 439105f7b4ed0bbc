package vision

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

var (
	outlineColor = color.NRGBA{R: 200, A: 255}
	fillColor    = color.NRGBA{R: 255, A: 255}
)

const (
	fillAlpha = 0.3

	// Boxes at least this large get their label inside.
	labelInsideMin = 15
)

// DrawRegions returns a copy of canvas with each region outlined,
// tinted and numbered by its label.
func DrawRegions(canvas image.Image, regions []domain.DifferenceRegion) *image.NRGBA {
	out := imaging.Clone(canvas)
	for _, r := range regions {
		// Corners are inclusive, so the box covers width+1 by height+1 pixels.
		box := image.Rect(r.X, r.Y, r.X+r.Width+1, r.Y+r.Height+1).Intersect(out.Rect)
		strokeRect(out, box, outlineColor)
		blendRect(out, box, fillColor, fillAlpha)
		drawLabel(out, r)
	}
	return out
}

func drawLabel(img *image.NRGBA, r domain.DifferenceRegion) {
	pt := image.Pt(r.X+r.Width+2, r.Y+r.Height+2)
	if r.Width >= labelInsideMin && r.Height >= labelInsideMin {
		pt = image.Pt(r.X+2, r.Y+labelInsideMin)
	}
	DrawText(img, pt, strconv.Itoa(r.Label), outlineColor)
}

// DrawText writes s with its baseline starting at pt.
func DrawText(img *image.NRGBA, pt image.Point, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(s)
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

func blendRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, alpha float64) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[i] = blend(c.R, img.Pix[i], alpha)
			img.Pix[i+1] = blend(c.G, img.Pix[i+1], alpha)
			img.Pix[i+2] = blend(c.B, img.Pix[i+2], alpha)
			i += 4
		}
	}
}

func blend(top, bottom uint8, alpha float64) uint8 {
	v := alpha*float64(top) + (1-alpha)*float64(bottom)
	return uint8(v + 0.5)
}

// DrawLine draws a 1px line between two points.
func DrawLine(img *image.NRGBA, a, b image.Point, c color.NRGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		if (image.Point{X: x, Y: y}).In(img.Rect) {
			img.SetNRGBA(x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawCircle draws a 1px circle outline.
func DrawCircle(img *image.NRGBA, center image.Point, radius int, c color.NRGBA) {
	x, y := radius, 0
	e := 1 - radius
	for x >= y {
		for _, p := range [8]image.Point{
			{center.X + x, center.Y + y}, {center.X + y, center.Y + x},
			{center.X - y, center.Y + x}, {center.X - x, center.Y + y},
			{center.X - x, center.Y - y}, {center.X - y, center.Y - x},
			{center.X + y, center.Y - x}, {center.X + x, center.Y - y},
		} {
			if p.In(img.Rect) {
				img.SetNRGBA(p.X, p.Y, c)
			}
		}
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
