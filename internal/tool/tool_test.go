package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
	"github.com/inamate/vecdraw/internal/history"
	"github.com/inamate/vecdraw/internal/selection"
)

func newContext(t *testing.T, shapes ...*document.Shape) Context {
	t.Helper()
	surface := document.NewSurface(400, 400, "#fff")
	h := history.NewService()
	h.Initialise(surface)
	if len(shapes) > 0 {
		surface.Append(shapes...)
		h.SaveState()
	}
	style := document.Style{Fill: "#f00", Stroke: "#000", StrokeWidth: 2, Opacity: 1}
	return Context{Surface: surface, History: h, Selection: selection.New(surface), Style: &style}
}

// activate installs the tool's hooks the way the engine does on a tool switch.
func activate(t *testing.T, ctx Context, name string) Tool {
	t.Helper()
	tl, ok := New(name, ctx)
	require.True(t, ok)
	ctx.History.ResetActions()
	ctx.History.Use(tl.Actions())
	return tl
}

func at(x, y float64) MouseEvent {
	return MouseEvent{Point: geom.Pt(x, y)}
}

func rect(id string, x, y, w, h float64) *document.Shape {
	return &document.Shape{
		ID: id, Kind: document.ShapeRect,
		X: x, Y: y, Width: w, Height: h,
		Style: document.Style{Fill: "#f00", Stroke: "#000", StrokeWidth: 2, Opacity: 1},
	}
}

func done(ctx Context) int {
	d, _ := ctx.History.Depth()
	return d
}

func TestNew(t *testing.T) {
	ctx := newContext(t)
	for _, name := range Names() {
		tl, ok := New(name, ctx)
		require.True(t, ok, name)
		assert.Equal(t, name, tl.Name())
	}
	_, ok := New("lasso", ctx)
	assert.False(t, ok)
}

func TestShapeToolCommits(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameRectangle)

	tl.OnMouseDown(at(60, 40))
	tl.OnMouseMove(at(30, 30))
	require.Len(t, ctx.Surface.TempChildren(), 1, "outline while dragging")
	tl.OnMouseUp(at(10, 10))

	children := ctx.Surface.Children()
	require.Len(t, children, 1)
	sh := children[0]
	assert.Equal(t, document.ShapeRect, sh.Kind)
	assert.Equal(t, geom.NewZone(10, 60, 10, 40), sh.LocalBounds())
	assert.Equal(t, "#f00", sh.Style.Fill)
	assert.Empty(t, ctx.Surface.TempChildren())
	assert.Equal(t, 2, done(ctx))
}

func TestShapeToolShiftSquares(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameEllipse)

	tl.OnMouseDown(at(10, 10))
	ev := at(60, -20)
	ev.Shift = true
	tl.OnMouseUp(ev)

	sh := ctx.Surface.Children()[0]
	assert.Equal(t, document.ShapeEllipse, sh.Kind)
	assert.Equal(t, geom.NewZone(10, 40, -20, 10), sh.LocalBounds())
}

func TestShapeToolDropsEmptyShape(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameRectangle)

	tl.OnMouseDown(at(10, 10))
	tl.OnMouseUp(at(10, 10))

	assert.Equal(t, 0, ctx.Surface.Len())
	assert.Equal(t, 1, done(ctx))
}

func TestShapeToolUndoWhileDragging(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameRectangle)
	st := tl.(*ShapeTool)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseUp(at(10, 10))
	committed := ctx.Surface.Children()[0].ID

	tl.OnMouseDown(at(20, 20))
	tl.OnMouseMove(at(40, 40))
	require.Equal(t, 2, ctx.Surface.Len())

	require.NoError(t, ctx.History.Undo())
	assert.False(t, st.Drawing())
	assert.Equal(t, []string{committed}, ctx.Surface.Capture().IDs(), "only the dragged shape is undone")
	assert.Empty(t, ctx.Surface.TempChildren())
	assert.True(t, ctx.History.CanRedo())

	tl.OnMouseUp(at(50, 50))
	assert.Equal(t, 1, ctx.Surface.Len(), "the release after an undo is ignored")

	require.NoError(t, ctx.History.Redo())
	children := ctx.Surface.Children()
	require.Len(t, children, 2)
	assert.Equal(t, committed, children[0].ID)
	assert.Equal(t, geom.NewZone(20, 40, 20, 40), children[1].LocalBounds())
}

func TestShapeToolUndoEmptyDrag(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameEllipse)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseUp(at(10, 10))
	require.Equal(t, 2, done(ctx))

	tl.OnMouseDown(at(20, 20))
	require.NoError(t, ctx.History.Undo())

	assert.Equal(t, 1, ctx.Surface.Len(), "dropping the empty drag is the whole undo")
	assert.Equal(t, 2, done(ctx))
	assert.False(t, ctx.History.CanRedo())
}

func TestShapeToolRedoWhileDragging(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameRectangle)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseUp(at(10, 10))
	require.NoError(t, ctx.History.Undo())

	tl.OnMouseDown(at(20, 20))
	tl.OnMouseMove(at(40, 40))
	require.NoError(t, ctx.History.Redo())

	assert.Equal(t, 1, ctx.Surface.Len(), "the drag is dropped and the undone shape comes back")
	assert.Equal(t, geom.NewZone(0, 10, 0, 10), ctx.Surface.Children()[0].LocalBounds())
}

func TestPolygon(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NamePolygon)
	pt := tl.(*ShapeTool)
	pt.Sides = 4

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseMove(at(20, 20))
	require.Len(t, ctx.Surface.TempChildren(), 1)
	tl.OnMouseUp(at(40, 20))

	children := ctx.Surface.Children()
	require.Len(t, children, 1)
	sh := children[0]
	assert.Equal(t, document.ShapePolygon, sh.Kind)
	require.Len(t, sh.Points, 4)
	want := []geom.Point{geom.Pt(20, 0), geom.Pt(40, 10), geom.Pt(20, 20), geom.Pt(0, 10)}
	for i, p := range want {
		assert.InDelta(t, p.X, sh.Points[i].X, 1e-9)
		assert.InDelta(t, p.Y, sh.Points[i].Y, 1e-9)
	}
	assert.Equal(t, 2, done(ctx))

	tl.OnMouseDown(at(100, 100))
	tl.OnMouseMove(at(150, 150))
	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{sh.ID}, ctx.Surface.Capture().IDs())
}

func TestPolygonCornersClampSides(t *testing.T) {
	z := geom.NewZone(0, 10, 0, 10)
	assert.Len(t, PolygonCorners(z, 1), MinPolygonSides)
	assert.Len(t, PolygonCorners(z, 40), MaxPolygonSides)
}

func TestShapeToolEscape(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameRectangle)

	assert.False(t, tl.OnKey(Key{Key: "Escape"}), "nothing to cancel")
	tl.OnMouseDown(at(0, 0))
	tl.OnMouseMove(at(10, 10))
	assert.True(t, tl.OnKey(Key{Key: "Escape"}))
	assert.Equal(t, 0, ctx.Surface.Len())
	assert.Equal(t, 1, done(ctx))
}

func TestPencil(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NamePencil)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseMove(at(5, 5))
	tl.OnMouseMove(at(5, 5))
	tl.OnMouseMove(at(10, 0))
	tl.OnMouseUp(at(10, 0))

	children := ctx.Surface.Children()
	require.Len(t, children, 1)
	line := children[0]
	assert.Equal(t, document.ShapePolyline, line.Kind)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5), geom.Pt(10, 0)}, line.Points)
	assert.Equal(t, "none", line.Style.Fill)
	assert.Equal(t, 2, done(ctx))

	tl.OnMouseDown(at(50, 50))
	tl.OnMouseMove(at(60, 60))
	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{line.ID}, ctx.Surface.Capture().IDs(), "the first line survives")

	tl.OnMouseMove(at(70, 70))
	assert.Equal(t, 1, ctx.Surface.Len())

	require.NoError(t, ctx.History.Redo())
	children = ctx.Surface.Children()
	require.Len(t, children, 2)
	assert.Equal(t, []geom.Point{geom.Pt(50, 50), geom.Pt(60, 60)}, children[1].Points)
}

func TestLine(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameLine)
	l := tl.(*Line)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseUp(at(0, 0))
	assert.True(t, l.Drawing())
	tl.OnMouseMove(at(30, 2))
	require.Len(t, ctx.Surface.TempChildren(), 1, "segment preview")

	shifted := at(30, 2)
	shifted.Shift = true
	tl.OnMouseDown(shifted)
	tl.OnMouseDown(at(30, 40))
	assert.Equal(t, 1, done(ctx), "nothing saved while the path is open")

	// a second click on the last corner ends the path
	tl.OnMouseDown(at(31, 41))

	assert.False(t, l.Drawing())
	assert.Empty(t, ctx.Surface.TempChildren())
	children := ctx.Surface.Children()
	require.Len(t, children, 1)
	path := children[0]
	assert.Equal(t, document.ShapeLine, path.Kind)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(30, 0), geom.Pt(30, 40)}, path.Points)
	assert.Equal(t, "none", path.Style.Fill)
	assert.Equal(t, 2, done(ctx))
}

func TestLineClosesOnFirstCorner(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameLine)

	for _, p := range []MouseEvent{at(0, 0), at(40, 0), at(40, 40), at(2, -1)} {
		tl.OnMouseDown(p)
	}

	sh := ctx.Surface.Children()[0]
	assert.Equal(t, document.ShapePolygon, sh.Kind)
	assert.Len(t, sh.Points, 3)
	assert.Equal(t, 2, done(ctx))
}

func TestLineKeys(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameLine)

	assert.False(t, tl.OnKey(Key{Key: "Enter"}), "no path")

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseDown(at(10, 0))
	tl.OnMouseDown(at(10, 10))
	assert.True(t, tl.OnKey(Key{Key: "Backspace"}))
	assert.True(t, tl.OnKey(Key{Key: "Enter"}))
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)}, ctx.Surface.Children()[0].Points)

	tl.OnMouseDown(at(50, 50))
	tl.OnMouseDown(at(60, 50))
	assert.True(t, tl.OnKey(Key{Key: "Escape"}))
	assert.Equal(t, 1, ctx.Surface.Len())
	assert.Equal(t, 2, done(ctx))
}

func TestLineUndoWhileDrawing(t *testing.T) {
	ctx := newContext(t)
	tl := activate(t, ctx, NameLine)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseDown(at(10, 0))
	tl.OnKey(Key{Key: "Enter"})
	first := ctx.Surface.Children()[0].ID

	tl.OnMouseDown(at(50, 50))
	tl.OnMouseDown(at(60, 50))
	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{first}, ctx.Surface.Capture().IDs())
	assert.True(t, ctx.History.CanRedo())

	// a path with a single corner has nothing to undo but itself
	tl.OnMouseDown(at(80, 80))
	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{first}, ctx.Surface.Capture().IDs())
	assert.Empty(t, ctx.Surface.TempChildren())
}

func TestAlignSegment(t *testing.T) {
	o := geom.Pt(10, 10)
	tests := []struct {
		name string
		p    geom.Point
		want geom.Point
	}{
		{"horizontal", geom.Pt(40, 13), geom.Pt(40, 10)},
		{"vertical", geom.Pt(12, -30), geom.Pt(10, -30)},
		{"diagonal down", geom.Pt(30, 28), geom.Pt(30, 30)},
		{"diagonal up", geom.Pt(30, -8), geom.Pt(30, -10)},
		{"same point", o, o},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlignSegment(o, tt.p))
		})
	}
}

func TestEraser(t *testing.T) {
	ctx := newContext(t, rect("a", 0, 0, 20, 20), rect("b", 100, 100, 20, 20))
	tl := activate(t, ctx, NameEraser)
	e := tl.(*Eraser)

	tl.OnMouseMove(at(0, 10))
	assert.Equal(t, []string{"a"}, e.Marked())
	assert.Equal(t, MarkColor, ctx.Surface.Find("a").Style.Stroke)
	require.Len(t, ctx.Surface.TempChildren(), 1, "cursor square")

	tl.OnMouseMove(at(60, 60))
	assert.Empty(t, e.Marked())
	assert.Equal(t, "#000", ctx.Surface.Find("a").Style.Stroke)

	tl.OnMouseMove(at(0, 10))
	tl.OnMouseDown(at(0, 10))
	tl.OnMouseUp(at(0, 10))
	assert.Equal(t, []string{"b"}, ctx.Surface.Capture().IDs())
	assert.Equal(t, 3, done(ctx))

	// The restored shape is under the cursor again and gets marked.
	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{"a"}, e.Marked())
	assert.Equal(t, MarkColor, ctx.Surface.Find("a").Style.Stroke)

	tl.Close()
	assert.Equal(t, "#000", ctx.Surface.Find("a").Style.Stroke, "history never saw the mark")
	assert.Empty(t, ctx.Surface.TempChildren())
}

func TestEraserSavesOnLeave(t *testing.T) {
	ctx := newContext(t, rect("a", 0, 0, 20, 20))
	tl := activate(t, ctx, NameEraser)

	tl.OnMouseDown(at(60, 60))
	tl.OnMouseMove(at(0, 10))
	assert.Equal(t, 0, ctx.Surface.Len())
	assert.Equal(t, 2, done(ctx), "nothing saved while the button is down")

	tl.OnMouseLeave(at(0, 10))
	assert.Equal(t, 3, done(ctx))
	assert.Empty(t, ctx.Surface.TempChildren())

	tl.OnMouseUp(at(0, 10))
	assert.Equal(t, 3, done(ctx))
}

func TestEraserUndoWhileErasing(t *testing.T) {
	ctx := newContext(t, rect("a", 0, 0, 20, 20), rect("b", 100, 100, 20, 20))
	tl := activate(t, ctx, NameEraser)

	tl.OnMouseDown(at(100, 110))
	tl.OnMouseUp(at(100, 110))
	require.Equal(t, []string{"a"}, ctx.Surface.Capture().IDs())
	require.Equal(t, 3, done(ctx))

	tl.OnMouseDown(at(60, 60))
	tl.OnMouseMove(at(0, 10))
	require.Equal(t, 0, ctx.Surface.Len())

	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, []string{"a"}, ctx.Surface.Capture().IDs(), "the earlier erase stays")
	assert.Equal(t, 3, done(ctx))

	tl.OnMouseMove(at(0, 12))
	assert.Equal(t, 1, ctx.Surface.Len(), "the button is no longer down")

	require.NoError(t, ctx.History.Redo())
	assert.Equal(t, 0, ctx.Surface.Len())
}

func TestSelectionMoveAndUndo(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40))
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(30, 30))
	require.Equal(t, []string{"a"}, ctx.Selection.IDs())
	tl.OnMouseMove(at(40, 35))
	tl.OnMouseUp(at(40, 35))

	assert.InDelta(t, 20, ctx.Surface.Find("a").Bounds().Left, 1e-9)
	assert.Equal(t, 3, done(ctx))

	require.NoError(t, ctx.History.Undo())
	a := ctx.Surface.Find("a")
	assert.InDelta(t, 10, a.Bounds().Left, 1e-9)
	require.Len(t, ctx.Selection.Selected(), 1)
	assert.Same(t, a, ctx.Selection.Selected()[0], "selection follows the restored shape")
	z, visible := ctx.Selection.Visualisation()
	assert.True(t, visible)
	assert.Equal(t, selection.ZoneOf(a), z)
}

func TestSelectionClickWithoutMoveSavesNothing(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40))
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(30, 30))
	tl.OnMouseUp(at(30, 30))
	assert.Equal(t, 2, done(ctx))

	tl.OnMouseDown(at(300, 300))
	tl.OnMouseUp(at(300, 300))
	assert.True(t, ctx.Selection.Empty())
}

func TestSelectionRubberBand(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 20, 20), rect("b", 100, 100, 20, 20))
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(0, 0))
	tl.OnMouseMove(at(20, 20))
	tl.OnMouseUp(at(40, 40))

	assert.Equal(t, []string{"a"}, ctx.Selection.IDs())
	for _, sh := range ctx.Surface.TempChildren() {
		assert.NotEqual(t, selection.RubberBandID, sh.ID)
	}
	assert.Equal(t, 2, done(ctx))
}

func TestSelectionScaleThroughHandle(t *testing.T) {
	a := rect("a", 0, 0, 100, 50)
	a.Style.StrokeWidth = 0
	ctx := newContext(t, a)
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(50, 25))
	tl.OnMouseUp(at(50, 25))

	tl.OnMouseDown(at(100, 25))
	tl.OnMouseMove(at(120, 25))
	tl.OnMouseUp(at(120, 25))

	b := ctx.Surface.Find("a").Bounds()
	assert.InDelta(t, 0, b.Left, 1e-9)
	assert.InDelta(t, 120, b.Right, 1e-9)
	assert.Equal(t, 3, done(ctx))
	assert.Equal(t, selection.HandleNone, ctx.Selection.Mouse.Handle)
}

func TestSelectionUndoDuringScale(t *testing.T) {
	a := rect("a", 0, 0, 100, 50)
	a.Style.StrokeWidth = 0
	ctx := newContext(t, a)
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(50, 25))
	tl.OnMouseUp(at(50, 25))
	tl.OnMouseDown(at(100, 25))
	tl.OnMouseMove(at(130, 25))

	require.NoError(t, ctx.History.Undo())
	require.Equal(t, 1, ctx.Surface.Len(), "the committed shape stays")
	assert.InDelta(t, 100, ctx.Surface.Find("a").Bounds().Right, 1e-9)
	assert.Equal(t, []string{"a"}, ctx.Selection.IDs())
	assert.Equal(t, selection.HandleNone, ctx.Selection.Mouse.Handle)

	tl.OnMouseUp(at(140, 25))
	assert.Equal(t, 2, done(ctx), "the interrupted drag is not saved twice")

	require.NoError(t, ctx.History.Redo())
	assert.InDelta(t, 130, ctx.Surface.Find("a").Bounds().Right, 1e-9)
}

func TestSelectionUndoDuringMove(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40), rect("b", 100, 100, 10, 10))
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(30, 30))
	tl.OnMouseMove(at(50, 30))
	require.NoError(t, ctx.History.Undo())

	assert.Equal(t, []string{"a", "b"}, ctx.Surface.Capture().IDs())
	assert.InDelta(t, 10, ctx.Surface.Find("a").Bounds().Left, 1e-9)
	assert.True(t, ctx.History.CanRedo())
}

func TestSelectionEscapeRevertsMove(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40))
	tl := activate(t, ctx, NameSelection)

	tl.OnMouseDown(at(30, 30))
	tl.OnMouseMove(at(80, 80))
	assert.True(t, tl.OnKey(Key{Key: "Escape"}))

	assert.InDelta(t, 10, ctx.Surface.Find("a").Bounds().Left, 1e-9)
	assert.True(t, ctx.Selection.Empty())
	assert.Equal(t, 2, done(ctx))
}

func TestSelectionKeys(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40), rect("b", 100, 100, 10, 10))
	tl := activate(t, ctx, NameSelection)

	assert.True(t, tl.OnKey(Key{Key: "a", Ctrl: true}))
	assert.Equal(t, []string{"a", "b"}, ctx.Selection.IDs())
	assert.True(t, tl.OnKey(Key{Key: "Escape"}))
	assert.True(t, ctx.Selection.Empty())

	tl.OnMouseDown(at(30, 30))
	tl.OnMouseUp(at(30, 30))
	require.Equal(t, []string{"a"}, ctx.Selection.IDs())

	assert.True(t, tl.OnKey(Key{Key: "d", Ctrl: true}))
	require.Equal(t, 3, ctx.Surface.Len())
	dup := ctx.Surface.Children()[2]
	assert.NotEqual(t, "a", dup.ID)
	assert.Equal(t, []string{dup.ID}, ctx.Selection.IDs())
	assert.InDelta(t, 20, dup.Bounds().Left, 1e-9)
	assert.Equal(t, 3, done(ctx))

	assert.True(t, tl.OnKey(Key{Key: "Delete"}))
	assert.Equal(t, []string{"a", "b"}, ctx.Surface.Capture().IDs())
	assert.Equal(t, 4, done(ctx))

	require.NoError(t, ctx.History.Undo())
	assert.Equal(t, 3, ctx.Surface.Len())

	assert.False(t, tl.OnKey(Key{Key: "q"}))
}

func TestSelectionRightClickToggles(t *testing.T) {
	ctx := newContext(t, rect("a", 10, 10, 40, 40))
	tl := activate(t, ctx, NameSelection)

	right := at(30, 30)
	right.Button = ButtonRight
	tl.OnMouseDown(right)
	tl.OnMouseUp(right)
	assert.Equal(t, []string{"a"}, ctx.Selection.IDs())

	tl.OnMouseDown(right)
	tl.OnMouseUp(right)
	assert.True(t, ctx.Selection.Empty())
}
