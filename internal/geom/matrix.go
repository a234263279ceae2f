package geom

import "math"

// Matrix2D is an affine transform stored as the SVG matrix(a, b, c, d, e, f):
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix2D [6]float64

func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// RotateAbout is SVG rotate(degrees, cx, cy): a rotation around (cx, cy).
func RotateAbout(degrees, cx, cy float64) Matrix2D {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Matrix2D{
		cos, sin,
		-sin, cos,
		cx - cos*cx + sin*cy,
		cy - sin*cx - cos*cy,
	}
}

// Multiply returns m·n, the transform that applies n and then m.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix2D{
		a*n[0] + c*n[1],
		b*n[0] + d*n[1],
		a*n[2] + c*n[3],
		b*n[2] + d*n[3],
		a*n[4] + c*n[5] + e,
		b*n[4] + d*n[5] + f,
	}
}

func (m Matrix2D) TransformPoint(p Point) Point {
	return Pt(m[0]*p.X+m[2]*p.Y+m[4], m[1]*p.X+m[3]*p.Y+m[5])
}

// TransformZone maps the four corners of z and returns their bounding box.
func (m Matrix2D) TransformZone(z Zone) Zone {
	out := ZoneFromPoints(m.TransformPoint(Pt(z.Left, z.Top)), m.TransformPoint(Pt(z.Right, z.Bottom)))
	return out.Union(ZoneFromPoints(m.TransformPoint(Pt(z.Right, z.Top)), m.TransformPoint(Pt(z.Left, z.Bottom))))
}

// Invert returns the inverse transform. A singular matrix, such as a scale
// by zero, inverts to the identity.
func (m Matrix2D) Invert() Matrix2D {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return Identity()
	}
	a, b, c, d := m[3]/det, -m[1]/det, -m[2]/det, m[0]/det
	return Matrix2D{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}
}

// ToSlice returns [a, b, c, d, e, f] for the canvas setTransform call.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}

// Near reports whether every entry of m is within eps of n.
func (m Matrix2D) Near(n Matrix2D, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}
