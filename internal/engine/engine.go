package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/selection"
	"github.com/inamate/vecdraw/internal/tool"
	"github.com/inamate/vecdraw/internal/typeid"
)

var (
	ErrNoDrawing   = errors.New("no drawing loaded")
	ErrUnknownTool = errors.New("unknown tool")
)

// DefaultStyle is the style new shapes get until SetStyle is called.
var DefaultStyle = document.Style{
	Fill:        "#ffffff",
	Stroke:      "#000000",
	StrokeWidth: 2,
	Opacity:     1,
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit bounds the undo stack of every drawing the engine loads.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		e.historyLimit = n
	}
}

// Engine is the editor engine that owns the drawing surface, its history,
// the selection and the active tool. It routes input events from the
// frontend to the tool and returns query results.
type Engine struct {
	// Drawing metadata; shapes live on the surface
	drawing *document.Drawing
	surface *document.Surface

	history   *history.Service
	selection *selection.Logic

	tool     tool.Tool
	toolName string
	style    document.Style

	historyLimit int
}

// State is the editor state reported to the frontend.
type State struct {
	Tool      string         `json:"tool"`
	CanUndo   bool           `json:"canUndo"`
	CanRedo   bool           `json:"canRedo"`
	UndoDepth int            `json:"undoDepth"`
	RedoDepth int            `json:"redoDepth"`
	Selection []string       `json:"selection"`
	Style     document.Style `json:"style"`
	Tools     []string       `json:"tools"`
}

// NewEngine creates an engine with no drawing loaded.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		toolName: tool.NameSelection,
		style:    DefaultStyle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands (frontend → backend) ---

// LoadDrawing loads a drawing from JSON.
func (e *Engine) LoadDrawing(jsonData string) error {
	var d document.Drawing
	if err := json.Unmarshal([]byte(jsonData), &d); err != nil {
		return fmt.Errorf("decode drawing: %w", err)
	}
	return e.load(&d)
}

// LoadSampleDrawing loads the built-in sample drawing.
func (e *Engine) LoadSampleDrawing(drawingID string) {
	// the sample always carries a valid size
	_ = e.load(document.NewSampleDrawing(drawingID))
}

// NewDrawing starts an empty drawing.
func (e *Engine) NewDrawing(name string, width, height int) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	d := document.NewEmptyDrawing(typeid.NewDrawingID(), name, width, height)
	d.CreatedAt, d.UpdatedAt = now, now
	if err := e.load(d); err != nil {
		return "", err
	}
	return d.ID, nil
}

// OpenDrawing loads a drawing value. The engine keeps its own copy of the
// shapes.
func (e *Engine) OpenDrawing(d *document.Drawing) error {
	return e.load(d)
}

func (e *Engine) load(d *document.Drawing) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("drawing %s: invalid size %dx%d", d.ID, d.Width, d.Height)
	}

	if e.tool != nil {
		e.tool.Close()
		e.tool = nil
	}

	meta := *d
	meta.Shapes = nil
	e.drawing = &meta
	e.surface = document.NewSurfaceFromDrawing(d)
	e.history = history.NewService(history.WithLimit(e.historyLimit))
	e.history.Initialise(e.surface)
	e.selection = selection.New(e.surface)

	return e.SelectTool(e.toolName)
}

// SelectTool closes the active tool and activates the named one. Hooks of
// the previous tool are reset before the new tool installs its own.
func (e *Engine) SelectTool(name string) error {
	if e.surface == nil {
		return ErrNoDrawing
	}

	t, ok := tool.New(name, tool.Context{
		Surface:   e.surface,
		History:   e.history,
		Selection: e.selection,
		Style:     &e.style,
	})
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	if e.tool != nil {
		e.tool.Close()
	}
	e.history.ResetActions()
	e.tool = t
	e.toolName = name
	e.history.Use(t.Actions())
	return nil
}

// SetStyle sets the style used for new shapes.
func (e *Engine) SetStyle(style document.Style) {
	e.style = style
}

// MouseDown forwards a pointer press to the active tool.
func (e *Engine) MouseDown(ev tool.MouseEvent) error {
	if e.tool == nil {
		return ErrNoDrawing
	}
	e.tool.OnMouseDown(ev)
	return nil
}

// MouseMove forwards pointer movement to the active tool.
func (e *Engine) MouseMove(ev tool.MouseEvent) error {
	if e.tool == nil {
		return ErrNoDrawing
	}
	e.tool.OnMouseMove(ev)
	return nil
}

// MouseUp forwards a pointer release to the active tool.
func (e *Engine) MouseUp(ev tool.MouseEvent) error {
	if e.tool == nil {
		return ErrNoDrawing
	}
	e.tool.OnMouseUp(ev)
	return nil
}

// MouseLeave tells the active tool the pointer left the surface.
func (e *Engine) MouseLeave(ev tool.MouseEvent) error {
	if e.tool == nil {
		return ErrNoDrawing
	}
	e.tool.OnMouseLeave(ev)
	return nil
}

// KeyDown handles the history shortcuts (Ctrl+Z, Ctrl+Shift+Z, Ctrl+Y) and
// forwards every other key to the active tool.
func (e *Engine) KeyDown(k tool.Key) error {
	if e.tool == nil {
		return ErrNoDrawing
	}

	if k.Ctrl {
		switch strings.ToLower(k.Key) {
		case "z":
			if k.Shift {
				return e.Redo()
			}
			return e.Undo()
		case "y":
			return e.Redo()
		}
	}

	e.tool.OnKey(k)
	return nil
}

// Undo runs the history undo with the active tool's hooks.
func (e *Engine) Undo() error {
	if e.history == nil {
		return ErrNoDrawing
	}
	return e.history.Undo()
}

// Redo runs the history redo with the active tool's hooks.
func (e *Engine) Redo() error {
	if e.history == nil {
		return ErrNoDrawing
	}
	return e.history.Redo()
}

// --- Queries (frontend ← backend) ---

func (e *Engine) CanUndo() bool {
	return e.history != nil && e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	return e.history != nil && e.history.CanRedo()
}

// Render compiles the surface into draw commands as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(e.DrawCommands())
	return result
}

// DrawCommands compiles the surface into draw commands.
func (e *Engine) DrawCommands() []DrawCommand {
	return CompileDrawCommands(e.surface)
}

// HitTest returns the ID of the topmost shape at the given coordinates, or
// empty string.
func (e *Engine) HitTest(x, y float64) string {
	if e.selection == nil {
		return ""
	}
	if sh := e.selection.Pick(geom.Pt(x, y)); sh != nil {
		return sh.ID
	}
	return ""
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.selection == nil {
		return ZoneToJSON(geom.Zone{})
	}
	z, _ := e.selection.Bounds()
	return ZoneToJSON(z)
}

// Drawing returns a copy of the drawing with the current shapes.
func (e *Engine) Drawing() (*document.Drawing, error) {
	if e.drawing == nil {
		return nil, ErrNoDrawing
	}
	d := *e.drawing
	d.Shapes = e.surface.Capture()
	return &d, nil
}

// GetDrawing returns the full drawing as JSON.
func (e *Engine) GetDrawing() string {
	d, err := e.Drawing()
	if err != nil {
		return "{}"
	}
	data, _ := json.Marshal(d)
	return string(data)
}

// State returns the editor state.
func (e *Engine) State() State {
	st := State{
		Tool:      e.toolName,
		Selection: []string{},
		Style:     e.style,
		Tools:     tool.Names(),
	}
	if e.history != nil {
		st.CanUndo = e.history.CanUndo()
		st.CanRedo = e.history.CanRedo()
		st.UndoDepth, st.RedoDepth = e.history.Depth()
	}
	if e.selection != nil {
		st.Selection = e.selection.IDs()
	}
	return st
}

// GetState returns the editor state as JSON.
func (e *Engine) GetState() string {
	data, _ := json.Marshal(e.State())
	return string(data)
}
