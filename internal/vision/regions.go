package vision

import "image"

type component struct {
	minX, minY int
	maxX, maxY int
	pixels     int

	// area is the area enclosed by the outline through the outer pixel
	// centres: 1 per 2x2 block fully inside, 0.5 per block with three
	// pixels. Lines and single pixels enclose nothing. Holes count as empty.
	area float64
}

func (c component) bounds() image.Rectangle {
	return image.Rect(c.minX, c.minY, c.maxX+1, c.maxY+1)
}

// components returns the 8-connected foreground components of a binary mask.
func components(mask *image.Gray) []component {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	labels := make([]int32, w*h)
	var out []component
	var stack []int

	for start := 0; start < w*h; start++ {
		sx, sy := start%w, start/w
		if labels[start] != 0 || mask.Pix[sy*mask.Stride+sx] == 0 {
			continue
		}
		id := int32(len(out) + 1)
		c := component{minX: sx, minY: sy, maxX: sx, maxY: sy}
		labels[start] = id
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := p%w, p/w
			c.pixels++
			c.minX = min(c.minX, x)
			c.maxX = max(c.maxX, x)
			c.minY = min(c.minY, y)
			c.maxY = max(c.maxY, y)

			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					q := ny*w + nx
					if labels[q] != 0 || mask.Pix[ny*mask.Stride+nx] == 0 {
						continue
					}
					labels[q] = id
					stack = append(stack, q)
				}
			}
		}
		c.area = enclosedArea(labels, w, id, c)
		out = append(out, c)
	}
	return out
}

func enclosedArea(labels []int32, w int, id int32, c component) float64 {
	var area float64
	for y := c.minY; y < c.maxY; y++ {
		for x := c.minX; x < c.maxX; x++ {
			i := y*w + x
			n := 0
			for _, q := range [4]int{i, i + 1, i + w, i + w + 1} {
				if labels[q] == id {
					n++
				}
			}
			switch n {
			case 4:
				area++
			case 3:
				area += 0.5
			}
		}
	}
	return area
}
