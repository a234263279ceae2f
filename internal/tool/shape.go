package tool

import (
	"math"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/typeid"
)

// OutlineID is the temporary zone ID of the dashed box drawn while a shape
// is dragged.
const OutlineID = "shape-outline"

// DefaultPolygonSides is the corner count of a new polygon tool.
const DefaultPolygonSides = 5

// Polygon sides are kept within these bounds.
const (
	MinPolygonSides = 3
	MaxPolygonSides = 12
)

// ShapeTool draws rectangles, ellipses or regular polygons by dragging a box.
// Holding Shift constrains the box to a square.
type ShapeTool struct {
	ctx  Context
	name string
	kind document.ShapeKind
	// Sides is only read by the polygon tool.
	Sides int

	drawing bool
	start   geom.Point
	zone    geom.Zone
	shape   *document.Shape
}

func NewRectangle(ctx Context) *ShapeTool {
	return &ShapeTool{ctx: ctx, name: NameRectangle, kind: document.ShapeRect}
}

func NewEllipse(ctx Context) *ShapeTool {
	return &ShapeTool{ctx: ctx, name: NameEllipse, kind: document.ShapeEllipse}
}

// NewPolygon draws a polygon whose corners lie on the ellipse inscribed in
// the dragged box. With Shift held the polygon is regular.
func NewPolygon(ctx Context) *ShapeTool {
	return &ShapeTool{ctx: ctx, name: NamePolygon, kind: document.ShapePolygon, Sides: DefaultPolygonSides}
}

func (t *ShapeTool) Name() string {
	return t.name
}

// Actions commits a shape still being dragged before undoing it, and drops
// it before a redo.
func (t *ShapeTool) Actions() history.Actions {
	return history.Actions{
		PreUndo: commitThenUndo(t.commit),
		PreRedo: cancelThenBase(t.cancel, redoBase),
	}
}

// Drawing reports whether a shape is being dragged.
func (t *ShapeTool) Drawing() bool {
	return t.drawing
}

func (t *ShapeTool) OnMouseDown(ev MouseEvent) {
	if ev.Button != ButtonLeft || t.drawing {
		return
	}
	t.drawing = true
	t.start = ev.Point
	t.shape = &document.Shape{
		ID:    typeid.NewShapeID(),
		Kind:  t.kind,
		X:     ev.Point.X,
		Y:     ev.Point.Y,
		Style: *t.ctx.Style,
	}
	t.ctx.Surface.Append(t.shape)
	t.update(ev)
}

func (t *ShapeTool) OnMouseMove(ev MouseEvent) {
	if t.drawing {
		t.update(ev)
	}
}

func (t *ShapeTool) OnMouseUp(ev MouseEvent) {
	if !t.drawing {
		return
	}
	t.update(ev)
	t.finish()
}

func (t *ShapeTool) OnMouseLeave(ev MouseEvent) {
	t.OnMouseUp(ev)
}

func (t *ShapeTool) OnKey(k Key) bool {
	if k.Key == "Escape" && t.drawing {
		t.cancel()
		return true
	}
	return false
}

func (t *ShapeTool) Close() {
	t.cancel()
}

// box returns the dragged zone, squared from the start corner when asked.
func (t *ShapeTool) box(end geom.Point, square bool) geom.Zone {
	if square {
		d := end.Sub(t.start)
		side := math.Min(math.Abs(d.X), math.Abs(d.Y))
		end = geom.Pt(t.start.X+math.Copysign(side, d.X), t.start.Y+math.Copysign(side, d.Y))
	}
	return geom.ZoneFromPoints(t.start, end)
}

func (t *ShapeTool) update(ev MouseEvent) {
	z := t.box(ev.Point, ev.Shift)
	t.zone = z
	if t.kind == document.ShapePolygon {
		t.shape.X, t.shape.Y = 0, 0
		t.shape.Points = PolygonCorners(z, t.Sides)
	} else {
		t.shape.X, t.shape.Y = z.Left, z.Top
		t.shape.Width, t.shape.Height = z.Width(), z.Height()
	}

	t.ctx.Surface.SetTemp(&document.Shape{
		ID:     OutlineID,
		Kind:   document.ShapeRect,
		X:      z.Left,
		Y:      z.Top,
		Width:  z.Width(),
		Height: z.Height(),
		Style:  document.Style{Fill: "none", Stroke: "#808080", StrokeWidth: 1, Opacity: 1, Dash: "4,4"},
	})
}

// finish commits the dragged shape, or drops it when it has no area. It
// reports whether a step was saved.
func (t *ShapeTool) finish() bool {
	t.drawing = false
	t.ctx.Surface.RemoveTemp(OutlineID)
	saved := t.zone.Width() != 0 && t.zone.Height() != 0
	if saved {
		t.ctx.History.SaveState()
	} else {
		t.ctx.Surface.Remove(t.shape.ID)
	}
	t.shape = nil
	return saved
}

// commit ends a drag in progress as a release would.
func (t *ShapeTool) commit() bool {
	if !t.drawing {
		return true
	}
	return t.finish()
}

// PolygonCorners places sides corners on the ellipse inscribed in z, the
// first one at the top.
func PolygonCorners(z geom.Zone, sides int) []geom.Point {
	sides = max(MinPolygonSides, min(MaxPolygonSides, sides))
	c := z.Center()
	rx, ry := z.Width()/2, z.Height()/2
	points := make([]geom.Point, sides)
	for i := range points {
		sin, cos := math.Sincos(-math.Pi/2 + 2*math.Pi*float64(i)/float64(sides))
		points[i] = geom.Pt(c.X+rx*cos, c.Y+ry*sin)
	}
	return points
}

func (t *ShapeTool) cancel() {
	if !t.drawing {
		return
	}
	t.drawing = false
	t.ctx.Surface.RemoveTemp(OutlineID)
	t.ctx.Surface.Remove(t.shape.ID)
	t.shape = nil
}
