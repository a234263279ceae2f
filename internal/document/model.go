package document

import (
	"fmt"
	"math"

	"github.com/jinzhu/copier"

	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/transform"
)

type Drawing struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Background string   `json:"background"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
	Shapes     Snapshot `json:"shapes"`
}

type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeEllipse  ShapeKind = "ellipse"
	ShapePolyline ShapeKind = "polyline"
	ShapePolygon  ShapeKind = "polygon"
	ShapeLine     ShapeKind = "line"
)

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
	Dash        string  `json:"dash,omitempty"`
	Filter      string  `json:"filter,omitempty"`
}

// Shape is one element of the drawing. Rectangles and ellipses use the
// X/Y/Width/Height box (the ellipse is inscribed in it); the other kinds use
// Points. Transform holds the SVG-style transform attribute.
type Shape struct {
	ID        string       `json:"id"`
	Kind      ShapeKind    `json:"kind"`
	X         float64      `json:"x,omitempty"`
	Y         float64      `json:"y,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	Points    []geom.Point `json:"points,omitempty"`
	Style     Style        `json:"style"`
	Transform string       `json:"transform,omitempty"`
}

// ellipseSegments is the number of chords used to approximate an ellipse outline.
const ellipseSegments = 64

// NewEmptyDrawing creates a drawing with no shapes.
func NewEmptyDrawing(id, name string, width, height int) *Drawing {
	return &Drawing{
		ID:         id,
		Name:       name,
		Width:      width,
		Height:     height,
		Background: "#ffffff",
		CreatedAt:  "", // Will be set by caller
		UpdatedAt:  "",
		Shapes:     Snapshot{},
	}
}

// TransformAttr returns the raw transform attribute.
func (s *Shape) TransformAttr() string {
	return s.Transform
}

// SetTransformAttr replaces the raw transform attribute.
func (s *Shape) SetTransformAttr(value string) {
	s.Transform = value
}

// Clone returns a deep copy that shares no memory with s.
func (s *Shape) Clone() *Shape {
	c := &Shape{}
	if err := copier.CopyWithOption(c, s, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid arguments, which two *Shape never are
		panic(fmt.Sprintf("clone shape %s: %v", s.ID, err))
	}
	return c
}

// Matrix returns the parsed transform as an affine matrix.
func (s *Shape) Matrix() geom.Matrix2D {
	return transform.Parse(s.Transform).Matrix()
}

// LocalBounds returns the untransformed bounding box of the geometry.
func (s *Shape) LocalBounds() geom.Zone {
	switch s.Kind {
	case ShapeRect, ShapeEllipse:
		return geom.ZoneFromPoints(geom.Pt(s.X, s.Y), geom.Pt(s.X+s.Width, s.Y+s.Height))
	}

	if len(s.Points) == 0 {
		return geom.Zone{}
	}
	z := geom.ZoneFromPoints(s.Points[0], s.Points[0])
	for _, p := range s.Points[1:] {
		z = z.Union(geom.ZoneFromPoints(p, p))
	}
	return z
}

// Bounds returns the bounding box on the surface, transform applied.
func (s *Shape) Bounds() geom.Zone {
	return s.Matrix().TransformZone(s.LocalBounds())
}

// Outline returns the polyline traced by the stroke, in local coordinates,
// and whether it is closed.
func (s *Shape) Outline() ([]geom.Point, bool) {
	switch s.Kind {
	case ShapeRect:
		z := s.LocalBounds()
		return []geom.Point{
			{X: z.Left, Y: z.Top},
			{X: z.Right, Y: z.Top},
			{X: z.Right, Y: z.Bottom},
			{X: z.Left, Y: z.Bottom},
		}, true
	case ShapeEllipse:
		z := s.LocalBounds()
		c := z.Center()
		rx, ry := z.Width()/2, z.Height()/2
		points := make([]geom.Point, ellipseSegments)
		for i := range points {
			a := 2 * math.Pi * float64(i) / ellipseSegments
			points[i] = geom.Pt(c.X+rx*math.Cos(a), c.Y+ry*math.Sin(a))
		}
		return points, true
	case ShapePolygon:
		return s.Points, true
	default:
		return s.Points, false
	}
}

// HitStroke reports whether p, in local coordinates, lies on the stroke.
// The stroke is treated as at least one unit wide.
func (s *Shape) HitStroke(p geom.Point) bool {
	tolerance := math.Max(s.Style.StrokeWidth/2, 1)
	outline, closed := s.Outline()
	return geom.PolylineDistance(p, outline, closed) <= tolerance
}

// Filled reports whether the shape paints its interior.
func (s *Shape) Filled() bool {
	return s.Style.Fill != "" && s.Style.Fill != "none"
}

// HitFill reports whether p, in local coordinates, lies inside a filled
// closed shape.
func (s *Shape) HitFill(p geom.Point) bool {
	if !s.Filled() {
		return false
	}
	outline, closed := s.Outline()
	return closed && geom.PointInPolygon(p, outline)
}

// Hit reports whether p, in local coordinates, lies on the painted shape.
func (s *Shape) Hit(p geom.Point) bool {
	return s.HitStroke(p) || s.HitFill(p)
}
