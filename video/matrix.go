package video

// Matrix2D is a 2x2 linear transform.
type Matrix2D struct {
	XDX, XDY float64
	YDX, YDY float64
}

// Identity is the transform that changes nothing.
var Identity = Matrix2D{XDX: 1, YDY: 1}

// Scale returns a uniform scale transform.
func Scale(s float64) *Matrix2D {
	return &Matrix2D{XDX: s, YDY: s}
}

// Transform applies the matrix to a point.
func (m *Matrix2D) Transform(x, y float64) (float64, float64) {
	if m == nil {
		return x, y
	}
	return x*m.XDX + y*m.XDY, x*m.YDX + y*m.YDY
}

// Multiply returns m * other.
func (m *Matrix2D) Multiply(other *Matrix2D) *Matrix2D {
	if m == nil {
		m = &Identity
	}
	if other == nil {
		other = &Identity
	}
	return &Matrix2D{
		XDX: m.XDX*other.XDX + m.XDY*other.YDX,
		XDY: m.XDX*other.XDY + m.XDY*other.YDY,
		YDX: m.YDX*other.XDX + m.YDY*other.YDX,
		YDY: m.YDX*other.XDY + m.YDY*other.YDY,
	}
}
