package geom

import "math"

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset is a directional delta between two points.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Equals reports whether both coordinates match exactly.
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add moves the point by an offset.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the offset that moves other onto p.
func (p Point) Sub(other Point) Offset {
	return Offset{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Add sums two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Scale multiplies both components by k.
func (o Offset) Scale(k float64) Offset {
	return Offset{X: o.X * k, Y: o.Y * k}
}

// IsZero reports whether the offset moves nothing.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// SegmentDistance returns the distance from p to the segment [a, b].
func SegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// PolylineDistance returns the smallest distance from p to any segment of the polyline.
// A single point polyline degenerates to a point distance.
func PolylineDistance(p Point, points []Point, closed bool) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(points[0])
	}

	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		best = math.Min(best, SegmentDistance(p, points[i-1], points[i]))
	}
	if closed {
		best = math.Min(best, SegmentDistance(p, points[len(points)-1], points[0]))
	}
	return best
}

// PointInPolygon reports whether p lies inside the closed polygon, using the
// even-odd rule.
func PointInPolygon(p Point, polygon []Point) bool {
	inside := false
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
