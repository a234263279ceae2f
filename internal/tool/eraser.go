package tool

import (
	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
)

const (
	// EraserCursorID is the temporary zone ID of the eraser square.
	EraserCursorID = "eraser-cursor"
	// MarkColor is the stroke given to shapes under the eraser.
	MarkColor = "#ff0000"
	// DefaultEraserSize is the side of the eraser square.
	DefaultEraserSize = 10.0
)

// Eraser deletes the shapes it passes over while the button is down. Shapes
// under the cursor are marked by recolouring their stroke; marks are always
// taken off before the surface is saved.
type Eraser struct {
	ctx  Context
	Size float64

	down    bool
	deleted bool
	hasLast bool
	last    geom.Point
	// marked maps a shape ID to its original stroke.
	marked map[string]string
}

func NewEraser(ctx Context) *Eraser {
	return &Eraser{ctx: ctx, Size: DefaultEraserSize, marked: map[string]string{}}
}

func (e *Eraser) Name() string {
	return NameEraser
}

// Actions saves deletions made by a drag in progress before undoing them,
// and re-marks the shapes under the cursor once undo or redo has replaced
// the surface.
func (e *Eraser) Actions() history.Actions {
	return history.Actions{
		PreUndo: history.PreAction{
			Enabled: true,
			Override: func(history.Base) error {
				e.down = false
				e.commit()
				return nil
			},
		},
		PostUndo: history.PostAction{Enabled: true, Func: e.afterRefresh},
		PostRedo: history.PostAction{Enabled: true, Func: e.afterRefresh},
	}
}

// Marked lists the IDs of the marked shapes.
func (e *Eraser) Marked() []string {
	ids := make([]string, 0, len(e.marked))
	for id := range e.marked {
		ids = append(ids, id)
	}
	return ids
}

func (e *Eraser) OnMouseDown(ev MouseEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	e.down = true
	e.moveTo(ev.Point)
}

func (e *Eraser) OnMouseMove(ev MouseEvent) {
	e.moveTo(ev.Point)
}

func (e *Eraser) OnMouseUp(ev MouseEvent) {
	if !e.down {
		return
	}
	e.down = false
	e.commit()
	e.mark(ev.Point)
}

func (e *Eraser) OnMouseLeave(ev MouseEvent) {
	e.down = false
	e.commit()
	e.unmark()
	e.hasLast = false
	e.ctx.Surface.RemoveTemp(EraserCursorID)
}

func (e *Eraser) OnKey(Key) bool {
	return false
}

func (e *Eraser) Close() {
	e.down = false
	e.commit()
	e.unmark()
	e.hasLast = false
	e.ctx.Surface.RemoveTemp(EraserCursorID)
}

func (e *Eraser) zone(p geom.Point) geom.Zone {
	return geom.Around(p, e.Size/2)
}

// under returns the shapes the eraser square at p touches.
func (e *Eraser) under(p geom.Point) []*document.Shape {
	return e.ctx.Selection.PickInZone(e.zone(p))
}

func (e *Eraser) moveTo(p geom.Point) {
	e.last, e.hasLast = p, true

	z := e.zone(p)
	e.ctx.Surface.SetTemp(&document.Shape{
		ID:     EraserCursorID,
		Kind:   document.ShapeRect,
		X:      z.Left,
		Y:      z.Top,
		Width:  z.Width(),
		Height: z.Height(),
		Style:  document.Style{Fill: "#ffffff", Stroke: "#000000", StrokeWidth: 1, Opacity: 1},
	})

	if e.down {
		e.erase(p)
	}
	e.mark(p)
}

func (e *Eraser) erase(p geom.Point) {
	for _, sh := range e.under(p) {
		delete(e.marked, sh.ID)
		e.ctx.Surface.Remove(sh.ID)
		e.deleted = true
	}
}

// mark recolours the shapes under p and takes the mark off the others.
func (e *Eraser) mark(p geom.Point) {
	e.unmark()
	for _, sh := range e.under(p) {
		e.marked[sh.ID] = sh.Style.Stroke
		sh.Style.Stroke = MarkColor
	}
}

func (e *Eraser) unmark() {
	for id, stroke := range e.marked {
		if sh := e.ctx.Surface.Find(id); sh != nil {
			sh.Style.Stroke = stroke
		}
	}
	clear(e.marked)
}

// commit saves the surface when something was erased since the last save.
func (e *Eraser) commit() {
	if !e.deleted {
		return
	}
	e.deleted = false
	e.unmark()
	e.ctx.History.SaveState()
}

// afterRefresh runs once the surface holds fresh copies from history: the
// old marks point at shapes that are gone, and any pending erase is void.
func (e *Eraser) afterRefresh() error {
	clear(e.marked)
	e.deleted = false
	if e.hasLast {
		e.mark(e.last)
	}
	return nil
}
