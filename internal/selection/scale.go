package selection

import (
	"math"

	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/transform"
)

// MinimumSize is the smallest baseline dimension, in surface units, that can
// be scaled. Thinner axes keep a factor of 1.
const MinimumSize = 5.0

type dimensions struct {
	width  float64
	height float64
}

// Scale resizes the selection by dragging one handle of the visualisation
// rectangle. The handle in Logic.Mouse is updated when the user pushes
// through the opposite edge.
type Scale struct {
	logic *Logic

	dragging bool
	base     dimensions
	scaled   dimensions
	pivot    geom.Point
	baseline []*transform.Attached

	scaleOffset geom.Offset
	inverted    geom.Offset
	factors     transform.Factors
}

func NewScale(logic *Logic) *Scale {
	return &Scale{
		logic:    logic,
		inverted: geom.Offset{X: 1, Y: 1},
		factors:  transform.Factors{X: 1, Y: 1},
	}
}

// OnMouseDown records the rounded rectangle size, its center and the
// transform of every selected shape.
func (s *Scale) OnMouseDown() {
	p1, p2 := s.rectangle()
	s.base = dimensions{width: p2.X - p1.X, height: p2.Y - p1.Y}
	s.scaled = s.base
	s.pivot = geom.ZoneFromPoints(p1, p2).Center()

	s.baseline = s.baseline[:0]
	for _, sh := range s.logic.selected {
		s.baseline = append(s.baseline, transform.New(sh))
	}

	s.scaleOffset = geom.Offset{}
	s.inverted = geom.Offset{X: 1, Y: 1}
	s.factors = transform.Factors{X: 1, Y: 1}
	s.dragging = true
}

// OnMouseMove resizes by the pointer movement since previous.
func (s *Scale) OnMouseMove(previous geom.Point) {
	if !s.dragging {
		return
	}
	offset := s.onResize(previous)
	s.resizeVisualisation(offset)
}

// OnMouseUp ends the drag and redraws the rectangle from its rounded geometry.
func (s *Scale) OnMouseUp() {
	s.dragging = false
	s.scaleOffset = geom.Offset{}
	s.inverted = geom.Offset{X: 1, Y: 1}
	s.baseline = nil
	if _, visible := s.logic.Visualisation(); visible {
		s.logic.DrawVisualisation(s.rectangle())
	}
}

// Dragging reports whether a resize is in progress.
func (s *Scale) Dragging() bool {
	return s.dragging
}

// Factors returns the scale factors of the last move, before inversion.
func (s *Scale) Factors() transform.Factors {
	return s.factors
}

// Inverted returns -1 on an axis the user pushed through, 1 otherwise.
func (s *Scale) Inverted() geom.Offset {
	return s.inverted
}

func (s *Scale) onResize(previous geom.Point) geom.Offset {
	current := s.logic.Mouse.Current

	var offset geom.Offset
	if s.logic.Mouse.Handle.Horizontal() {
		offset.X = current.X - previous.X
	} else {
		offset.Y = current.Y - previous.Y
	}

	s.accumulate(offset)
	s.resizeAll()
	return offset
}

// accumulate adds a movement of the held edge to the target size, the
// accumulated offset and the factors.
func (s *Scale) accumulate(offset geom.Offset) {
	handle := s.logic.Mouse.Handle
	if handle == HandleLeft {
		s.scaled.width -= offset.X
	} else {
		s.scaled.width += offset.X
	}
	if handle == HandleTop {
		s.scaled.height -= offset.Y
	} else {
		s.scaled.height += offset.Y
	}

	s.scaleOffset = s.scaleOffset.Add(offset)
	s.factors = transform.Factors{
		X: factor(s.scaled.width, s.base.width),
		Y: factor(s.scaled.height, s.base.height),
	}
}

func factor(target, base float64) float64 {
	if base < MinimumSize {
		return 1
	}
	return target / base
}

// resizeAll scales every baseline transform about the rectangle's center,
// then shifts it by half the accumulated offset so the edge opposite the
// handle stays in place.
func (s *Scale) resizeAll() {
	fx := s.factors.X * s.inverted.X
	fy := s.factors.Y * s.inverted.Y
	if s.base.width < MinimumSize {
		fx = 1
	}
	if s.base.height < MinimumSize {
		fy = 1
	}

	var shift geom.Offset
	if fx != 1 {
		shift.X = s.scaleOffset.X / 2
	}
	if fy != 1 {
		shift.Y = s.scaleOffset.Y / 2
	}

	for _, base := range s.baseline {
		t := base.Clone()
		t.ScaleAbout(s.pivot, fx, fy)
		t.Shift(shift.X, shift.Y)
		t.Apply()
	}
}

func (s *Scale) resizeVisualisation(offset geom.Offset) {
	p1, p2 := s.rectangle()
	primary, overflow := s.preventResizeOverflow(offset, p1, p2)
	p1, p2 = s.drawResizing(primary, p1, p2)
	if rest := s.closingRest(p1, p2, offset); !rest.IsZero() {
		s.accumulate(rest)
		s.resizeAll()
		p1, p2 = s.drawResizing(rest, p1, p2)
	}
	s.switchHandle(p1, p2, offset)
	s.drawResizing(overflow, p1, p2)
}

// closingRest returns the movement that carries the held edge onto the
// opposite one when the handle is about to switch on a rectangle that is
// not fully closed. The content then collapses on the same edge as the
// rectangle.
func (s *Scale) closingRest(p1, p2 geom.Point, offset geom.Offset) geom.Offset {
	var rest geom.Offset
	w, h := p2.X-p1.X, p2.Y-p1.Y
	switch s.logic.Mouse.Handle {
	case HandleLeft:
		if offset.X > 0 && w <= 1 {
			rest.X = w
		}
	case HandleRight:
		if offset.X < 0 && w <= 1 {
			rest.X = -w
		}
	case HandleTop:
		if offset.Y > 0 && h <= 1 {
			rest.Y = h
		}
	case HandleBottom:
		if offset.Y < 0 && h <= 1 {
			rest.Y = -h
		}
	}
	return rest
}

// rectangle returns the corners of the visualisation rectangle, its size
// rounded to whole units.
func (s *Scale) rectangle() (geom.Point, geom.Point) {
	z, _ := s.logic.Visualisation()
	p1 := geom.Pt(z.Left, z.Top)
	return p1, geom.Pt(z.Left+math.Round(z.Width()), z.Top+math.Round(z.Height()))
}

// preventResizeOverflow clamps the movement of the held edge at the opposite
// edge. The remainder, in the same direction, is returned as overflow.
func (s *Scale) preventResizeOverflow(offset geom.Offset, p1, p2 geom.Point) (geom.Offset, geom.Offset) {
	var primary geom.Offset
	switch s.logic.Mouse.Handle {
	case HandleLeft:
		primary.X = offset.X
		if p1.X+offset.X > p2.X {
			primary.X = p2.X - p1.X
		}
	case HandleRight:
		primary.X = offset.X
		if p2.X+offset.X < p1.X {
			primary.X = p1.X - p2.X
		}
	case HandleTop:
		primary.Y = offset.Y
		if p1.Y+offset.Y > p2.Y {
			primary.Y = p2.Y - p1.Y
		}
	case HandleBottom:
		primary.Y = offset.Y
		if p2.Y+offset.Y < p1.Y {
			primary.Y = p1.Y - p2.Y
		}
	default:
		return geom.Offset{}, geom.Offset{}
	}
	return primary, geom.Offset{X: offset.X - primary.X, Y: offset.Y - primary.Y}
}

// switchHandle swaps to the opposite handle once the rectangle is collapsed
// on the dragged axis and the pointer keeps moving past it. The target size
// changes sign with the inversion flag, so the applied factor is continuous.
func (s *Scale) switchHandle(p1, p2 geom.Point, offset geom.Offset) {
	handle := s.logic.Mouse.Handle

	if p2.X-p1.X <= 1 && offset.X != 0 {
		next := HandleRight
		if offset.X < 0 {
			next = HandleLeft
		}
		if next != handle {
			s.logic.Mouse.Handle = next
			s.inverted.X = -s.inverted.X
			s.scaled.width = -s.scaled.width
		}
	}

	if p2.Y-p1.Y <= 1 && offset.Y != 0 {
		next := HandleBottom
		if offset.Y < 0 {
			next = HandleTop
		}
		if next != handle {
			s.logic.Mouse.Handle = next
			s.inverted.Y = -s.inverted.Y
			s.scaled.height = -s.scaled.height
		}
	}
}

// drawResizing moves the edge of the held handle by offset and redraws.
func (s *Scale) drawResizing(offset geom.Offset, p1, p2 geom.Point) (geom.Point, geom.Point) {
	switch s.logic.Mouse.Handle {
	case HandleLeft:
		p1.X += offset.X
	case HandleTop:
		p1.Y += offset.Y
	case HandleRight:
		p2.X += offset.X
	case HandleBottom:
		p2.Y += offset.Y
	}
	s.logic.DrawVisualisation(p1, p2)
	return p1, p2
}
