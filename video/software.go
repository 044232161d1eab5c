package video

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/sirupsen/logrus"
)

// SoftwareTexture is a texture held in main memory.
type SoftwareTexture struct {
	img    *image.NRGBA
	mipmap bool
}

// Size returns the texture dimensions.
func (t *SoftwareTexture) Size() (width, height int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// Image returns the texture pixels.
func (t *SoftwareTexture) Image() image.Image {
	return t.img
}

// Mipmapped reports whether the texture was loaded with mipmaps requested.
func (t *SoftwareTexture) Mipmapped() bool {
	return t.mipmap
}

// SoftwareRenderer loads frames into SoftwareTextures.
type SoftwareRenderer struct {
	uploads uint64
}

// NewSoftwareRenderer creates a renderer that keeps textures in memory.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// LoadTexture copies the frame's pixels, so the decoder is free to reuse its
// buffer afterwards. The texture origin is always (0, 0).
func (s *SoftwareRenderer) LoadTexture(frame *Frame, mipmap bool) Texture {
	if frame == nil {
		return nil
	}

	w, h := frame.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Rect, frame.img, frame.img.Rect.Min, xdraw.Src)
	s.uploads++

	logrus.WithFields(logrus.Fields{
		"function": "SoftwareRenderer.LoadTexture",
		"width":    w,
		"height":   h,
		"mipmap":   mipmap,
		"uploads":  s.uploads,
	}).Debug("Loaded frame into texture")

	return &SoftwareTexture{img: img, mipmap: mipmap}
}

// Uploads returns how many textures have been loaded.
func (s *SoftwareRenderer) Uploads() uint64 {
	return s.uploads
}

type imageSource interface {
	Image() image.Image
}

// Rasterize flattens a render tree into an image the size of r.
func Rasterize(r Renderable) *image.NRGBA {
	if r == nil {
		return image.NewNRGBA(image.Rectangle{})
	}

	w, h := r.Size()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	drawInto(dst, r, 0, 0, 1, 1)
	return dst
}

// drawInto draws src with its origin at (x, y), scaling its content by
// (sx, sy).
func drawInto(dst xdraw.Image, src Renderable, x, y, sx, sy float64) {
	switch s := src.(type) {
	case *Render:
		csx, csy := sx, sy
		if s.Reverse != nil {
			csx *= s.Reverse.XDX
			csy *= s.Reverse.YDY
		}
		for _, child := range s.children {
			cx := x + float64(child.Offset.X)*sx
			cy := y + float64(child.Offset.Y)*sy
			drawInto(dst, child.Source, cx, cy, csx, csy)
		}

	case imageSource:
		img := s.Image()
		b := img.Bounds()
		if sx == 1 && sy == 1 {
			at := image.Pt(int(x), int(y))
			xdraw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, xdraw.Over)
			return
		}
		target := image.Rect(
			int(x), int(y),
			int(x+float64(b.Dx())*sx+0.5), int(y+float64(b.Dy())*sy+0.5),
		)
		xdraw.BiLinear.Scale(dst, target, img, b, xdraw.Over, nil)

	default:
		logrus.WithFields(logrus.Fields{
			"function": "Rasterize",
		}).Debug("Skipping renderable without pixels")
	}
}
