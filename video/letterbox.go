package video

import "image"

// ScaleFactors calculates the horizontal and vertical factors that map a
// source size onto a destination size.
func ScaleFactors(srcWidth, srcHeight, dstWidth, dstHeight int) (xFactor, yFactor float64) {
	xFactor = float64(dstWidth) / float64(srcWidth)
	yFactor = float64(dstHeight) / float64(srcHeight)
	return
}

// Letterbox fits r into a width x height render, scaling uniformly by the
// smaller of the two factors and centering the result. A nil renderable
// yields nil. A zero-sized renderable or a box without area yields an
// empty box with no transform.
func Letterbox(r Renderable, width, height int) *Render {
	if r == nil {
		return nil
	}

	rv := NewRender(max(width, 0), max(height, 0))

	sw, sh := r.Size()
	if sw <= 0 || sh <= 0 || width <= 0 || height <= 0 {
		return rv
	}

	xf, yf := ScaleFactors(sw, sh, width, height)
	scale := min(xf, yf)

	dw := scale * float64(sw)
	dh := scale * float64(sh)

	rv.Forward = Scale(1.0 / scale)
	rv.Reverse = Scale(scale)
	rv.Blit(r, image.Pt(int((float64(width)-dw)/2), int((float64(height)-dh)/2)))

	return rv
}
