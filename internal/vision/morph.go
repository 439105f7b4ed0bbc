package vision

import "image"

// dilate3 applies one 3x3 dilation. Pixels outside the image are ignored.
func dilate3(src *image.Gray) *image.Gray {
	return morph3(src, func(acc, v uint8) uint8 { return max(acc, v) }, 0)
}

// erode3 applies one 3x3 erosion. Pixels outside the image are ignored.
func erode3(src *image.Gray) *image.Gray {
	return morph3(src, func(acc, v uint8) uint8 { return min(acc, v) }, 255)
}

func morph3(src *image.Gray, op func(acc, v uint8) uint8, init uint8) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(src.Rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := init
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				row := yy * src.Stride
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					acc = op(acc, src.Pix[row+xx])
				}
			}
			dst.Pix[y*dst.Stride+x] = acc
		}
	}
	return dst
}
