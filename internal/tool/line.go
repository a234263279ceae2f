package tool

import (
	"math"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/typeid"
)

const (
	// LinePreviewID is the temporary zone ID of the segment that follows the
	// pointer.
	LinePreviewID = "line-preview"
	// LineSnapDistance is how close, on both axes, a click must land to an
	// existing corner to end the path on it.
	LineSnapDistance = 3.0
)

// Line draws a path of straight segments, one click per corner. Clicking the
// last corner again or pressing Enter ends the path; clicking the first
// corner closes it into a polygon. Shift aligns the segment to the nearest
// multiple of 45 degrees.
type Line struct {
	ctx    Context
	path   *document.Shape
	cursor geom.Point
}

func NewLine(ctx Context) *Line {
	return &Line{ctx: ctx}
}

func (l *Line) Name() string {
	return NameLine
}

func (l *Line) Actions() history.Actions {
	return history.Actions{
		PreUndo: commitThenUndo(l.finish),
		PreRedo: cancelThenBase(l.cancel, redoBase),
	}
}

// Drawing reports whether a path is in progress.
func (l *Line) Drawing() bool {
	return l.path != nil
}

func (l *Line) OnMouseDown(ev MouseEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	if l.path == nil {
		style := *l.ctx.Style
		style.Fill = "none"
		l.path = &document.Shape{
			ID:     typeid.NewShapeID(),
			Kind:   document.ShapeLine,
			Points: []geom.Point{ev.Point},
			Style:  style,
		}
		l.ctx.Surface.Append(l.path)
		l.preview(ev.Point)
		return
	}

	p := l.aim(ev)
	points := l.path.Points
	switch {
	case near(p, points[len(points)-1]):
		l.finish()
	case len(points) >= 3 && near(p, points[0]):
		l.path.Kind = document.ShapePolygon
		l.finish()
	default:
		l.path.Points = append(l.path.Points, p)
		l.preview(p)
	}
}

func (l *Line) OnMouseMove(ev MouseEvent) {
	if l.path != nil {
		l.preview(l.aim(ev))
	}
}

func (l *Line) OnMouseUp(MouseEvent) {}

func (l *Line) OnMouseLeave(MouseEvent) {}

func (l *Line) OnKey(k Key) bool {
	if l.path == nil {
		return false
	}
	switch k.Key {
	case "Escape":
		l.cancel()
	case "Enter":
		l.finish()
	case "Backspace":
		if n := len(l.path.Points); n >= 2 {
			l.path.Points = l.path.Points[:n-1]
			l.preview(l.cursor)
		}
	default:
		return false
	}
	return true
}

// Close keeps the path drawn so far.
func (l *Line) Close() {
	l.finish()
}

// aim returns the pointer position, aligned on the last corner when Shift
// is held.
func (l *Line) aim(ev MouseEvent) geom.Point {
	if !ev.Shift {
		return ev.Point
	}
	return AlignSegment(l.path.Points[len(l.path.Points)-1], ev.Point)
}

func (l *Line) preview(to geom.Point) {
	l.cursor = to
	last := l.path.Points[len(l.path.Points)-1]
	l.ctx.Surface.SetTemp(&document.Shape{
		ID:     LinePreviewID,
		Kind:   document.ShapeLine,
		Points: []geom.Point{last, to},
		Style:  l.path.Style,
	})
}

// finish saves the path when it has at least one segment and drops it
// otherwise. It reports false only when a path was dropped.
func (l *Line) finish() bool {
	if l.path == nil {
		return true
	}
	l.ctx.Surface.RemoveTemp(LinePreviewID)
	saved := len(l.path.Points) >= 2
	if saved {
		l.ctx.History.SaveState()
	} else {
		l.ctx.Surface.Remove(l.path.ID)
	}
	l.path = nil
	return saved
}

func (l *Line) cancel() {
	if l.path == nil {
		return
	}
	l.ctx.Surface.RemoveTemp(LinePreviewID)
	l.ctx.Surface.Remove(l.path.ID)
	l.path = nil
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) <= LineSnapDistance && math.Abs(a.Y-b.Y) <= LineSnapDistance
}

// AlignSegment moves p so the segment from origin to p is horizontal,
// vertical or diagonal, whichever is closest.
func AlignSegment(origin, p geom.Point) geom.Point {
	dx, dy := p.X-origin.X, p.Y-origin.Y
	angle := math.Abs(math.Atan(dy / dx))
	switch {
	case angle < math.Pi/8:
		return geom.Pt(p.X, origin.Y)
	case angle > 3*math.Pi/8:
		return geom.Pt(origin.X, p.Y)
	case dx*dy > 0:
		return geom.Pt(p.X, origin.Y+dx)
	default:
		return geom.Pt(p.X, origin.Y-dx)
	}
}
