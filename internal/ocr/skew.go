package ocr

import (
	"image"
	"math"
	"sort"
)

type point struct {
	x, y float64
}

// SkewAngle estimates the rotation of the dark foreground in degrees,
// normalised to (-45, 45]. Positive angles mean the content leans
// clockwise on screen. ok is false with fewer than minForeground dark pixels.
func SkewAngle(binary *image.Gray, minForeground int) (angle float64, ok bool) {
	w, h := binary.Rect.Dx(), binary.Rect.Dy()

	// The hull of all dark pixels equals the hull of each row's extremes.
	var pts []point
	count := 0
	for y := 0; y < h; y++ {
		first, last := -1, -1
		row := y * binary.Stride
		for x := 0; x < w; x++ {
			if binary.Pix[row+x] < 128 {
				count++
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first >= 0 {
			pts = append(pts, point{float64(first), float64(y)})
			if last != first {
				pts = append(pts, point{float64(last), float64(y)})
			}
		}
	}
	if count <= minForeground {
		return 0, false
	}

	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0, false
	}
	return normaliseAngle(minAreaAngle(hull)), true
}

// convexHull returns the hull in counter-clockwise order (monotone chain).
func convexHull(pts []point) []point {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})
	cross := func(o, a, b point) float64 {
		return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
	}

	hull := make([]point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// minAreaAngle returns the edge angle, in degrees, of the minimum-area
// rectangle enclosing the hull. One rectangle side is always collinear
// with a hull edge.
func minAreaAngle(hull []point) float64 {
	bestArea := math.Inf(1)
	bestAngle := 0.0
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		dx, dy := b.x-a.x, b.y-a.y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ux, uy := dx/l, dy/l

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.x*ux + p.y*uy
			v := -p.x*uy + p.y*ux
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		area := (maxU - minU) * (maxV - minV)
		if area < bestArea {
			bestArea = area
			bestAngle = math.Atan2(dy, dx) * 180 / math.Pi
		}
	}
	return bestAngle
}

// normaliseAngle folds a rectangle edge angle into (-45, 45].
func normaliseAngle(a float64) float64 {
	a = math.Mod(a, 90)
	if a < 0 {
		a += 90
	}
	if a > 45 {
		a -= 90
	}
	return a
}
