package vision

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// heatLUT maps 0..255 to a blue (low) to red (high) ramp.
var heatLUT = buildHeatLUT()

func buildHeatLUT() [256]color.NRGBA {
	var lut [256]color.NRGBA
	for i := range lut {
		t := float64(i) / 255
		// Hue runs 240 (blue) to 0 (red); the ends are darkened like a jet map.
		v := 0.5 + 0.5*min(1, 4*min(t, 1-t)+0.5)
		c := colorful.Hsv(240*(1-t), 1, v).Clamped()
		r, g, b := c.RGB255()
		lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return lut
}

// HeatColor returns the ramp colour for an intensity.
func HeatColor(v uint8) color.NRGBA {
	return heatLUT[v]
}

// Colorize maps a grey image onto the heat ramp.
func Colorize(g *image.Gray) *image.NRGBA {
	out := image.NewNRGBA(g.Rect)
	for y := g.Rect.Min.Y; y < g.Rect.Max.Y; y++ {
		for x := g.Rect.Min.X; x < g.Rect.Max.X; x++ {
			out.SetNRGBA(x, y, heatLUT[g.GrayAt(x, y).Y])
		}
	}
	return out
}
