package tool

import (
	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/selection"
	"github.com/inamate/vecdraw/internal/transform"
	"github.com/inamate/vecdraw/internal/typeid"
)

// DuplicateOffset is how far Ctrl+D moves the copies.
const DuplicateOffset = 10.0

type gesture int

const (
	gestureNone gesture = iota
	gestureMove
	gestureScale
	gestureRubberBand
)

// Selection picks, moves, resizes and deletes shapes.
type Selection struct {
	ctx   Context
	logic *selection.Logic
	scale *selection.Scale

	gesture  gesture
	moved    bool
	previous geom.Point
}

func NewSelection(ctx Context) *Selection {
	return &Selection{
		ctx:   ctx,
		logic: ctx.Selection,
		scale: selection.NewScale(ctx.Selection),
	}
}

func (s *Selection) Name() string {
	return NameSelection
}

// Actions ends a gesture in flight before undo or redo and resolves the
// selection again afterwards, since the surface holds new shapes by then.
// Undo records a move or resize in progress first so that it alone is taken
// back; redo drops it.
func (s *Selection) Actions() history.Actions {
	preUndo := history.PreAction{
		Enabled: true,
		Override: func(history.Base) error {
			s.end()
			return nil
		},
	}
	preRedo := history.PreAction{
		Enabled: true,
		Override: func(history.Base) error {
			s.abort()
			return nil
		},
	}
	post := history.PostAction{
		Enabled: true,
		Func: func() error {
			s.logic.Reselect(s.logic.IDs())
			return nil
		},
	}
	return history.Actions{PreUndo: preUndo, PostUndo: post, PreRedo: preRedo, PostRedo: post}
}

func (s *Selection) OnMouseDown(ev MouseEvent) {
	p := ev.Point
	s.logic.Mouse.Down = true
	s.logic.Mouse.Start = p
	s.logic.Mouse.Current = p
	s.previous = p
	s.moved = false

	if ev.Button == ButtonRight {
		if sh := s.logic.Pick(p); sh != nil {
			s.logic.Toggle(sh)
		}
		return
	}
	if ev.Button != ButtonLeft {
		return
	}

	if h := s.logic.HandleAt(p); h != selection.HandleNone {
		s.logic.Mouse.Handle = h
		s.scale.OnMouseDown()
		s.gesture = gestureScale
		return
	}

	sh := s.logic.Pick(p)
	switch {
	case sh != nil && ev.Shift:
		s.logic.Toggle(sh)
	case sh != nil && s.logic.IsSelected(sh):
		s.gesture = gestureMove
	case sh != nil:
		s.logic.Select(sh)
		s.gesture = gestureMove
	case s.logic.InVisualisation(p):
		s.gesture = gestureMove
	default:
		s.logic.Clear()
		s.gesture = gestureRubberBand
	}
}

func (s *Selection) OnMouseMove(ev MouseEvent) {
	p := ev.Point
	prev := s.previous
	s.previous = p
	s.logic.Mouse.Current = p

	switch s.gesture {
	case gestureMove:
		d := p.Sub(prev)
		if !d.IsZero() {
			s.logic.Translate(d.X, d.Y)
			s.moved = true
		}
	case gestureScale:
		if !p.Equals(prev) {
			s.scale.OnMouseMove(prev)
			s.moved = true
		}
	case gestureRubberBand:
		z := s.logic.DrawRubberBand(s.logic.Mouse.Start, p)
		s.logic.Select(s.logic.PickInZone(z)...)
	}
}

func (s *Selection) OnMouseUp(ev MouseEvent) {
	s.OnMouseMove(ev)
	s.end()
}

func (s *Selection) OnMouseLeave(ev MouseEvent) {
	s.end()
}

func (s *Selection) OnKey(k Key) bool {
	switch {
	case k.Key == "Escape":
		s.cancel()
		s.logic.Clear()
	case k.Key == "Delete" || k.Key == "Backspace":
		s.deleteSelected()
	case k.Ctrl && (k.Key == "a" || k.Key == "A"):
		s.logic.Select(s.ctx.Surface.Children()...)
	case k.Ctrl && (k.Key == "d" || k.Key == "D"):
		s.duplicate()
	default:
		return false
	}
	return true
}

func (s *Selection) Close() {
	s.end()
	s.logic.Clear()
}

// dirty reports whether the gesture in progress has changed the surface.
func (s *Selection) dirty() bool {
	return s.moved && (s.gesture == gestureMove || s.gesture == gestureScale)
}

// end finishes the gesture and records it if it changed the surface.
func (s *Selection) end() {
	changed := s.dirty()
	s.abort()
	if changed {
		s.ctx.History.SaveState()
	}
}

// cancel stops the gesture and puts back the last saved surface if the
// gesture had already changed it.
func (s *Selection) cancel() {
	changed := s.dirty()
	s.abort()
	if changed {
		s.ctx.History.Revert()
		s.logic.Reselect(s.logic.IDs())
	}
}

// abort stops the gesture without recording it.
func (s *Selection) abort() {
	switch s.gesture {
	case gestureScale:
		s.scale.OnMouseUp()
	case gestureRubberBand:
		s.logic.ClearRubberBand()
	}
	s.logic.Mouse.Handle = selection.HandleNone
	s.logic.Mouse.Down = false
	s.gesture = gestureNone
	s.moved = false
}

func (s *Selection) deleteSelected() {
	if s.logic.Empty() {
		return
	}
	for _, sh := range s.logic.Selected() {
		s.ctx.Surface.Remove(sh.ID)
	}
	s.logic.Clear()
	s.ctx.History.SaveState()
}

// duplicate appends copies of the selection, moved by DuplicateOffset, and
// selects them.
func (s *Selection) duplicate() {
	if s.logic.Empty() {
		return
	}
	var copies []*document.Shape
	for _, sh := range s.logic.Selected() {
		c := sh.Clone()
		c.ID = typeid.NewShapeID()
		copies = append(copies, c)
	}
	transform.TranslateAll(copies, DuplicateOffset, DuplicateOffset)
	s.ctx.Surface.Append(copies...)
	s.logic.Select(copies...)
	s.ctx.History.SaveState()
}
