package video

import "image"

// Renderable is anything that can be placed into a Render.
type Renderable interface {
	Size() (width, height int)
}

// Texture is a frame uploaded to the rendering backend.
type Texture interface {
	Renderable
}

// Placement is a child of a Render together with its offset.
type Placement struct {
	Source Renderable
	Offset image.Point
}

// Render is a node of the retained render tree.
type Render struct {
	width    int
	height   int
	children []Placement

	// Forward maps this render's coordinates into child coordinates.
	Forward *Matrix2D
	// Reverse maps child coordinates into this render's coordinates.
	Reverse *Matrix2D
}

// NewRender creates an empty render of the given size.
func NewRender(width, height int) *Render {
	return &Render{width: width, height: height}
}

// Size returns the layout size of the render.
func (r *Render) Size() (width, height int) {
	return r.width, r.height
}

// Blit places src at offset.
func (r *Render) Blit(src Renderable, offset image.Point) {
	if src == nil {
		return
	}
	r.children = append(r.children, Placement{Source: src, Offset: offset})
}

// Children returns the placed children in drawing order.
func (r *Render) Children() []Placement {
	return r.children
}

// SetScale attaches a uniform forward/reverse transform pair. A factor of 1
// clears both matrices.
func (r *Render) SetScale(reverse float64) {
	if reverse == 1 || reverse == 0 {
		r.Forward, r.Reverse = nil, nil
		return
	}
	r.Reverse = Scale(reverse)
	r.Forward = Scale(1 / reverse)
}
