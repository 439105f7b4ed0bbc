package domain

import "math"

// Rect is an axis-aligned rectangle in page coordinates (points).
// X0/Y0 is the top-left corner, X1/Y1 the bottom-right.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// PageWord is a single word on a page with its bounding box.
type PageWord struct {
	Text string `json:"text"`
	Rect Rect   `json:"rect"`
}
