package video

import (
	"image"
	"image/color"
)

// Frame is a decoded video frame in non-premultiplied RGBA.
//
// Frames produced by Subframe share pixels with their parent, and keep the
// parent's coordinate space: Bounds().Min is the offset of the view.
type Frame struct {
	img *image.NRGBA
}

// NewFrame wraps decoded pixels. A nil image yields a nil frame.
func NewFrame(img *image.NRGBA) *Frame {
	if img == nil {
		return nil
	}
	return &Frame{img: img}
}

// NewSolidFrame creates a width x height frame filled with c.
func NewSolidFrame(width, height int, c color.NRGBA) *Frame {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return &Frame{img: img}
}

// Size returns the frame dimensions in pixels.
func (f *Frame) Size() (width, height int) {
	return f.img.Rect.Dx(), f.img.Rect.Dy()
}

// Bounds returns the frame rectangle in its parent's coordinate space.
func (f *Frame) Bounds() image.Rectangle {
	return f.img.Rect
}

// Image returns the underlying pixels.
func (f *Frame) Image() *image.NRGBA {
	return f.img
}

// Subframe returns a view of r, given relative to the frame's own origin.
func (f *Frame) Subframe(r image.Rectangle) *Frame {
	r = r.Add(f.img.Rect.Min).Intersect(f.img.Rect)
	return &Frame{img: f.img.SubImage(r).(*image.NRGBA)}
}

// SplitSideMask splits a side-by-side frame into its color half (left) and
// alpha half (right). A nil frame yields two nil halves.
func SplitSideMask(f *Frame) (colorHalf, maskHalf *Frame) {
	if f == nil {
		return nil, nil
	}

	w, h := f.Size()
	w /= 2

	maskHalf = f.Subframe(image.Rect(w, 0, 2*w, h))
	colorHalf = f.Subframe(image.Rect(0, 0, w, h))
	return colorHalf, maskHalf
}

// ApplyAlphaMask copies the red channel of mask into the alpha channel of
// dst, over the area the two frames have in common.
func ApplyAlphaMask(mask, dst *Frame) error {
	if dst == nil {
		return ErrNoBaseFrame
	}
	if mask == nil {
		return ErrNoMaskFrame
	}

	mw, mh := mask.Size()
	dw, dh := dst.Size()
	w, h := min(mw, dw), min(mh, dh)

	mmin, dmin := mask.img.Rect.Min, dst.img.Rect.Min
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mi := mask.img.PixOffset(mmin.X+x, mmin.Y+y)
			di := dst.img.PixOffset(dmin.X+x, dmin.Y+y)
			dst.img.Pix[di+3] = mask.img.Pix[mi]
		}
	}

	return nil
}
