package geom

import "math"

// DeepTestStep is the spacing, in surface units, between the sample points
// DeepTestPass probes. Strokes thinner than this can slip between samples.
const DeepTestStep = 3.0

// Zone is an axis-aligned rectangle given by its four edges.
type Zone struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// StrokeHitter is implemented by anything that can tell whether a point,
// in its own coordinate space, lies on its rendered stroke.
type StrokeHitter interface {
	HitStroke(p Point) bool
}

// NewZone creates a zone from its bounds. The bounds are kept as given.
func NewZone(left, right, top, bottom float64) Zone {
	return Zone{Left: left, Right: right, Top: top, Bottom: bottom}
}

// ZoneFromPoints creates a normalized zone spanning two corners.
func ZoneFromPoints(a, b Point) Zone {
	return Zone{
		Left:   math.Min(a.X, b.X),
		Right:  math.Max(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// Union returns a zone covering both zones.
func (z Zone) Union(other Zone) Zone {
	return Zone{
		Left:   math.Min(z.Left, other.Left),
		Right:  math.Max(z.Right, other.Right),
		Top:    math.Min(z.Top, other.Top),
		Bottom: math.Max(z.Bottom, other.Bottom),
	}
}

// Intersection returns the overlapping zone and whether it has a strictly
// positive width and height.
func (z Zone) Intersection(other Zone) (bool, Zone) {
	left := math.Max(z.Left, other.Left)
	right := math.Min(z.Right, other.Right)
	top := math.Max(z.Top, other.Top)
	bottom := math.Min(z.Bottom, other.Bottom)
	return left < right && top < bottom, Zone{Left: left, Right: right, Top: top, Bottom: bottom}
}

// DeepTestPass samples the zone on a DeepTestStep grid (bounds inclusive),
// maps every sample into the element's space with toLocal and reports
// whether any of them lands on the element's stroke.
func (z Zone) DeepTestPass(el StrokeHitter, toLocal Matrix2D) bool {
	for x := z.Left; x <= z.Right; x += DeepTestStep {
		for y := z.Top; y <= z.Bottom; y += DeepTestStep {
			if el.HitStroke(toLocal.TransformPoint(Point{X: x, Y: y})) {
				return true
			}
		}
	}
	return false
}

// GetPoints returns the top-left and bottom-right corners.
func (z Zone) GetPoints() (Point, Point) {
	return Point{X: z.Left, Y: z.Top}, Point{X: z.Right, Y: z.Bottom}
}

// Width returns Right - Left.
func (z Zone) Width() float64 {
	return z.Right - z.Left
}

// Height returns Bottom - Top.
func (z Zone) Height() float64 {
	return z.Bottom - z.Top
}

// Center returns the middle of the zone.
func (z Zone) Center() Point {
	return Point{X: (z.Left + z.Right) / 2, Y: (z.Top + z.Bottom) / 2}
}

// Contains reports whether p lies inside the zone, edges included.
func (z Zone) Contains(p Point) bool {
	return p.X >= z.Left && p.X <= z.Right && p.Y >= z.Top && p.Y <= z.Bottom
}

// IsEmpty reports whether the zone has no area.
func (z Zone) IsEmpty() bool {
	return z.Left >= z.Right || z.Top >= z.Bottom
}

// Expand grows the zone by d on every side.
func (z Zone) Expand(d float64) Zone {
	return Zone{Left: z.Left - d, Right: z.Right + d, Top: z.Top - d, Bottom: z.Bottom + d}
}

// Around returns the square zone of the given half-size centered on p.
func Around(p Point, half float64) Zone {
	return Zone{Left: p.X - half, Right: p.X + half, Top: p.Y - half, Bottom: p.Y + half}
}
