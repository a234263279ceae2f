// Package selection resolves which shapes are under the cursor or inside a
// rubber band, keeps the current selection and its visualisation rectangle,
// and resizes the selection through its handles.
package selection

import (
	"math"
	"slices"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/transform"
)

// Temporary zone IDs of the selection feedback shapes.
const (
	VisualisationID = "selection-visualisation"
	RubberBandID    = "selection-rubber-band"
	handleIDPrefix  = "selection-handle-"
)

// filterMargin widens the zone of shapes drawn with a filter, whose effect
// bleeds outside the geometry.
const filterMargin = 10.0

// pickTolerance is the half-size of the square probed around a click.
const pickTolerance = 2.0

// Mouse is the pointer state the selection tool shares with Scale.
type Mouse struct {
	Down    bool
	Handle  Handle
	Start   geom.Point
	Current geom.Point
}

// Logic holds the selection of one surface.
type Logic struct {
	Mouse Mouse

	surface       *document.Surface
	selected      []*document.Shape
	visualisation geom.Zone
	visible       bool
}

func New(surface *document.Surface) *Logic {
	return &Logic{
		surface: surface,
		Mouse:   Mouse{Handle: HandleNone},
	}
}

func (l *Logic) Surface() *document.Surface {
	return l.surface
}

// ZoneOf returns the area covered by a shape on the surface: its geometry,
// half the stroke around it, and a margin for filters.
func ZoneOf(sh *document.Shape) geom.Zone {
	z := sh.LocalBounds().Expand(sh.Style.StrokeWidth / 2)
	z = sh.Matrix().TransformZone(z)
	if sh.Style.Filter != "" {
		z = z.Expand(filterMargin)
	}
	return z
}

// Pick returns the topmost shape painted under p, or nil.
func (l *Logic) Pick(p geom.Point) *document.Shape {
	children := l.surface.Children()
	probe := geom.Around(p, pickTolerance)
	for i := len(children) - 1; i >= 0; i-- {
		sh := children[i]
		if ok, _ := probe.Intersection(ZoneOf(sh)); !ok {
			continue
		}
		toLocal := sh.Matrix().Invert()
		if sh.Hit(toLocal.TransformPoint(p)) || probe.DeepTestPass(sh, toLocal) {
			return sh
		}
	}
	return nil
}

// PickInZone returns, in painter's order, every shape whose zone meets z and
// whose stroke crosses it or which lies entirely inside it.
func (l *Logic) PickInZone(z geom.Zone) []*document.Shape {
	var picked []*document.Shape
	for _, sh := range l.surface.Children() {
		shapeZone := ZoneOf(sh)
		ok, overlap := z.Intersection(shapeZone)
		if !ok {
			continue
		}
		if overlap == shapeZone || overlap.DeepTestPass(sh, sh.Matrix().Invert()) {
			picked = append(picked, sh)
		}
	}
	return picked
}

// Selected returns the selected shapes in selection order.
func (l *Logic) Selected() []*document.Shape {
	return slices.Clone(l.selected)
}

// Empty reports whether nothing is selected.
func (l *Logic) Empty() bool {
	return len(l.selected) == 0
}

func (l *Logic) IsSelected(sh *document.Shape) bool {
	return slices.Contains(l.selected, sh)
}

// IDs lists the IDs of the selected shapes.
func (l *Logic) IDs() []string {
	ids := make([]string, len(l.selected))
	for i, sh := range l.selected {
		ids[i] = sh.ID
	}
	return ids
}

// Select replaces the selection.
func (l *Logic) Select(shapes ...*document.Shape) {
	l.selected = nil
	l.Add(shapes...)
}

// Add extends the selection, ignoring shapes already selected.
func (l *Logic) Add(shapes ...*document.Shape) {
	for _, sh := range shapes {
		if sh != nil && !l.IsSelected(sh) {
			l.selected = append(l.selected, sh)
		}
	}
	l.RefreshVisualisation()
}

// Toggle adds the shape to the selection or removes it.
func (l *Logic) Toggle(sh *document.Shape) {
	if i := slices.Index(l.selected, sh); i >= 0 {
		l.selected = slices.Delete(l.selected, i, i+1)
	} else {
		l.selected = append(l.selected, sh)
	}
	l.RefreshVisualisation()
}

// Clear empties the selection and hides the visualisation.
func (l *Logic) Clear() {
	l.selected = nil
	l.RefreshVisualisation()
}

// Reselect resolves the given IDs against the current draw zone. Shapes that
// no longer exist are dropped. Used after the surface has been restored.
func (l *Logic) Reselect(ids []string) {
	l.selected = nil
	for _, id := range ids {
		if sh := l.surface.Find(id); sh != nil {
			l.selected = append(l.selected, sh)
		}
	}
	l.RefreshVisualisation()
}

// Bounds returns the union of the zones of the selected shapes.
func (l *Logic) Bounds() (geom.Zone, bool) {
	if len(l.selected) == 0 {
		return geom.Zone{}, false
	}
	z := ZoneOf(l.selected[0])
	for _, sh := range l.selected[1:] {
		z = z.Union(ZoneOf(sh))
	}
	return z, true
}

// Visualisation returns the rectangle drawn around the selection and whether
// it is shown.
func (l *Logic) Visualisation() (geom.Zone, bool) {
	return l.visualisation, l.visible
}

// DrawVisualisation shows the selection rectangle spanning p1 and p2, with
// its handles, in the temporary zone.
func (l *Logic) DrawVisualisation(p1, p2 geom.Point) {
	l.visualisation = geom.ZoneFromPoints(p1, p2)
	l.visible = true

	z := l.visualisation
	l.surface.SetTemp(&document.Shape{
		ID:     VisualisationID,
		Kind:   document.ShapeRect,
		X:      z.Left,
		Y:      z.Top,
		Width:  z.Width(),
		Height: z.Height(),
		Style:  document.Style{Fill: "none", Stroke: "#3b82f6", StrokeWidth: 1, Opacity: 1, Dash: "4,4"},
	})
	for h, c := range HandlePoints(z) {
		l.surface.SetTemp(&document.Shape{
			ID:     handleIDPrefix + Handle(h).String(),
			Kind:   document.ShapeEllipse,
			X:      c.X - HandleRadius/2,
			Y:      c.Y - HandleRadius/2,
			Width:  HandleRadius,
			Height: HandleRadius,
			Style:  document.Style{Fill: "#ffffff", Stroke: "#3b82f6", StrokeWidth: 1, Opacity: 1},
		})
	}
}

// HideVisualisation removes the selection rectangle and its handles.
func (l *Logic) HideVisualisation() {
	l.visible = false
	l.visualisation = geom.Zone{}
	l.surface.RemoveTemp(VisualisationID)
	for h := range handleCount {
		l.surface.RemoveTemp(handleIDPrefix + Handle(h).String())
	}
}

// RefreshVisualisation redraws the rectangle around the current selection.
func (l *Logic) RefreshVisualisation() {
	z, ok := l.Bounds()
	if !ok {
		l.HideVisualisation()
		return
	}
	l.DrawVisualisation(z.GetPoints())
}

// HandleAt returns the handle under p, or HandleNone.
func (l *Logic) HandleAt(p geom.Point) Handle {
	if !l.visible {
		return HandleNone
	}
	for h, c := range HandlePoints(l.visualisation) {
		if math.Abs(p.X-c.X) <= HandleRadius && math.Abs(p.Y-c.Y) <= HandleRadius {
			return Handle(h)
		}
	}
	return HandleNone
}

// InVisualisation reports whether p lies inside the shown selection rectangle.
func (l *Logic) InVisualisation(p geom.Point) bool {
	return l.visible && l.visualisation.Contains(p)
}

// Translate moves the selected shapes and their rectangle by a surface delta.
func (l *Logic) Translate(dx, dy float64) {
	if len(l.selected) == 0 {
		return
	}
	transform.ShiftAll(l.selected, dx, dy)
	if l.visible {
		d := geom.Offset{X: dx, Y: dy}
		p1, p2 := l.visualisation.GetPoints()
		l.DrawVisualisation(p1.Add(d), p2.Add(d))
	}
}

// DrawRubberBand shows the drag selection rectangle.
func (l *Logic) DrawRubberBand(p1, p2 geom.Point) geom.Zone {
	z := geom.ZoneFromPoints(p1, p2)
	l.surface.SetTemp(&document.Shape{
		ID:     RubberBandID,
		Kind:   document.ShapeRect,
		X:      z.Left,
		Y:      z.Top,
		Width:  z.Width(),
		Height: z.Height(),
		Style:  document.Style{Fill: "rgba(59,130,246,0.1)", Stroke: "#3b82f6", StrokeWidth: 1, Opacity: 1, Dash: "2,2"},
	})
	return z
}

func (l *Logic) ClearRubberBand() {
	l.surface.RemoveTemp(RubberBandID)
}
