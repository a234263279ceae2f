// Package tool implements the drawing tools that turn pointer and keyboard
// input into surface edits. Every committed edit is recorded with
// history.Service.SaveState; a tool that keeps transient state across events
// hands the history the hooks it needs through Actions.
package tool

import (
	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/selection"
)

// Tool names.
const (
	NameSelection = "selection"
	NameRectangle = "rectangle"
	NameEllipse   = "ellipse"
	NamePencil    = "pencil"
	NameEraser    = "eraser"
	NamePolygon   = "polygon"
	NameLine      = "line"
)

type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

// MouseEvent is a pointer event in surface coordinates.
type MouseEvent struct {
	Point  geom.Point `json:"point"`
	Button Button     `json:"button"`
	Shift  bool       `json:"shift"`
	Ctrl   bool       `json:"ctrl"`
}

// Key is a key press. Key holds the DOM key name ("Escape", "Delete", "a").
type Key struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
}

// Context is what a tool is allowed to touch.
type Context struct {
	Surface   *document.Surface
	History   *history.Service
	Selection *selection.Logic
	// Style is shared with the engine; tools read it when they create a shape.
	Style *document.Style
}

// Tool receives the input events of the surface while it is active.
type Tool interface {
	Name() string
	// Actions returns the undo/redo hooks installed while the tool is active.
	Actions() history.Actions
	OnMouseDown(ev MouseEvent)
	OnMouseMove(ev MouseEvent)
	OnMouseUp(ev MouseEvent)
	OnMouseLeave(ev MouseEvent)
	// OnKey reports whether the key was consumed.
	OnKey(k Key) bool
	// Close ends any gesture in progress and removes the tool's temporary shapes.
	Close()
}

// New creates the tool with the given name.
func New(name string, ctx Context) (Tool, bool) {
	switch name {
	case NameSelection:
		return NewSelection(ctx), true
	case NameRectangle:
		return NewRectangle(ctx), true
	case NameEllipse:
		return NewEllipse(ctx), true
	case NamePencil:
		return NewPencil(ctx), true
	case NameEraser:
		return NewEraser(ctx), true
	case NamePolygon:
		return NewPolygon(ctx), true
	case NameLine:
		return NewLine(ctx), true
	}
	return nil, false
}

// Names lists the available tools.
func Names() []string {
	return []string{NameSelection, NameRectangle, NameEllipse, NamePolygon, NameLine, NamePencil, NameEraser}
}

// commitThenUndo returns a pre-undo action that records the gesture in
// progress as its own step and then undoes it, so the undo takes back that
// gesture only. commit reports false when the gesture was dropped without a
// step; the drop is then the whole undo.
func commitThenUndo(commit func() bool) history.PreAction {
	return history.PreAction{
		Enabled:                  true,
		OverrideDefaultBehaviour: true,
		Override: func(b history.Base) error {
			if commit() {
				b.UndoBase()
			}
			return nil
		},
	}
}

// cancelThenBase returns a pre action that drops the gesture in progress and
// then runs the base step itself.
func cancelThenBase(cancel func(), base func(history.Base)) history.PreAction {
	return history.PreAction{
		Enabled:                  true,
		OverrideDefaultBehaviour: true,
		Override: func(b history.Base) error {
			cancel()
			base(b)
			return nil
		},
	}
}

func redoBase(b history.Base) { b.RedoBase() }
