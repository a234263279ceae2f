package tool

import (
	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/typeid"
)

// Pencil draws a free-hand polyline.
type Pencil struct {
	ctx     Context
	drawing bool
	line    *document.Shape
}

func NewPencil(ctx Context) *Pencil {
	return &Pencil{ctx: ctx}
}

func (p *Pencil) Name() string {
	return NamePencil
}

func (p *Pencil) Actions() history.Actions {
	return history.Actions{
		PreUndo: commitThenUndo(p.commit),
		PreRedo: cancelThenBase(p.cancel, redoBase),
	}
}

func (p *Pencil) OnMouseDown(ev MouseEvent) {
	if ev.Button != ButtonLeft || p.drawing {
		return
	}
	style := *p.ctx.Style
	style.Fill = "none"

	p.drawing = true
	p.line = &document.Shape{
		ID:     typeid.NewShapeID(),
		Kind:   document.ShapePolyline,
		Points: []geom.Point{ev.Point},
		Style:  style,
	}
	p.ctx.Surface.Append(p.line)
}

func (p *Pencil) OnMouseMove(ev MouseEvent) {
	if !p.drawing {
		return
	}
	if last := p.line.Points[len(p.line.Points)-1]; !last.Equals(ev.Point) {
		p.line.Points = append(p.line.Points, ev.Point)
	}
}

// OnMouseUp commits the line. A click without movement leaves a dot.
func (p *Pencil) OnMouseUp(ev MouseEvent) {
	if !p.drawing {
		return
	}
	p.OnMouseMove(ev)
	p.commit()
}

func (p *Pencil) OnMouseLeave(ev MouseEvent) {
	p.OnMouseUp(ev)
}

func (p *Pencil) OnKey(k Key) bool {
	if k.Key == "Escape" && p.drawing {
		p.cancel()
		return true
	}
	return false
}

func (p *Pencil) Close() {
	p.cancel()
}

// commit saves a line still being drawn.
func (p *Pencil) commit() bool {
	if p.drawing {
		p.drawing = false
		p.line = nil
		p.ctx.History.SaveState()
	}
	return true
}

func (p *Pencil) cancel() {
	if !p.drawing {
		return
	}
	p.drawing = false
	p.ctx.Surface.Remove(p.line.ID)
	p.line = nil
}
