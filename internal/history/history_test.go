package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/geom"
)

func shape(id string) *document.Shape {
	return &document.Shape{
		ID:     id,
		Kind:   document.ShapePolyline,
		Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10)},
	}
}

func ids(s *document.Surface) []string {
	return s.Capture().IDs()
}

func newHistory(t *testing.T, opts ...Option) (*Service, *document.Surface) {
	t.Helper()
	surface := document.NewSurface(100, 100, "#fff")
	h := NewService(opts...)
	h.Initialise(surface)
	return h, surface
}

func TestUndoRedoScenario(t *testing.T) {
	h, surface := newHistory(t)

	surface.Append(shape("A"))
	h.SaveState()
	surface.Append(shape("B"))
	h.SaveState()

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"A"}, ids(surface))
	assert.True(t, h.CanRedo())

	require.NoError(t, h.Redo())
	assert.Equal(t, []string{"A", "B"}, ids(surface))
	assert.False(t, h.CanRedo())
}

func TestUndoReturnsToEverySavePoint(t *testing.T) {
	for saves := 1; saves <= 5; saves++ {
		for undos := 0; undos <= saves; undos++ {
			t.Run(fmt.Sprintf("%d saves %d undos", saves, undos), func(t *testing.T) {
				h, surface := newHistory(t)
				states := [][]string{ids(surface)}
				for i := 0; i < saves; i++ {
					surface.Append(shape(fmt.Sprintf("s%d", i)))
					h.SaveState()
					states = append(states, ids(surface))
				}

				for i := 0; i < undos; i++ {
					require.NoError(t, h.Undo())
				}
				assert.Equal(t, states[saves-undos], ids(surface))

				for i := 0; i < undos; i++ {
					require.NoError(t, h.Redo())
				}
				assert.Equal(t, states[saves], ids(surface))
			})
		}
	}
}

func TestSaveAfterUndoClearsRedo(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()
	require.NoError(t, h.Undo())
	require.True(t, h.CanRedo())

	surface.Append(shape("C"))
	h.SaveState()
	assert.False(t, h.CanRedo())

	require.NoError(t, h.Redo())
	assert.Equal(t, []string{"C"}, ids(surface), "redo is a no-op once invalidated")
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := NewService()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.NoError(t, h.Undo())
	assert.NoError(t, h.Redo())
	h.SaveState() // no surface bound

	h, surface := newHistory(t)
	assert.True(t, h.CanUndo(), "the initial state is on the stack")
	require.NoError(t, h.Undo())
	assert.False(t, h.CanUndo())
	require.NoError(t, h.Undo())
	assert.Empty(t, ids(surface))
	done, undone := h.Depth()
	assert.Equal(t, 0, done)
	assert.Equal(t, 1, undone)
}

func TestSnapshotsDoNotAliasLiveShapes(t *testing.T) {
	h, surface := newHistory(t)
	a := shape("A")
	surface.Append(a)
	h.SaveState()

	a.Transform = "translate(50,50)"
	h.SaveState()

	require.NoError(t, h.Undo())
	assert.Equal(t, "", surface.Find("A").Transform)

	surface.Find("A").Transform = "translate(1,1)"
	require.NoError(t, h.Redo())
	assert.Equal(t, "translate(50,50)", surface.Find("A").Transform)
}

func TestPreUndoOverride(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()

	// A tool in the middle of a gesture: its transient shape is on the surface
	// but not saved yet.
	surface.Append(shape("transient"))
	var calls []string
	h.SetPreUndoAction(PreAction{
		Enabled:                  true,
		OverrideDefaultBehaviour: true,
		Override: func(base Base) error {
			calls = append(calls, "pre")
			surface.Remove("transient")
			base.UndoBase()
			return nil
		},
	})
	h.SetPostUndoAction(PostAction{
		Enabled: true,
		Func: func() error {
			calls = append(calls, "post")
			return nil
		},
	})

	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"pre", "post"}, calls)
	assert.Empty(t, ids(surface), "base undo ran exactly once")
	done, undone := h.Depth()
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, undone)
}

func TestPreUndoWithoutOverrideRunsBase(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()

	called := false
	h.SetPreUndoAction(PreAction{
		Enabled: true,
		Override: func(Base) error {
			called = true
			return nil
		},
	})
	require.NoError(t, h.Undo())
	assert.True(t, called)
	assert.Empty(t, ids(surface))
}

func TestDisabledActionsAreIgnored(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()

	h.Use(Actions{
		PreUndo: PreAction{
			OverrideDefaultBehaviour: true,
			Override:                 func(Base) error { return errors.New("must not run") },
		},
		PostUndo: PostAction{Func: func() error { return errors.New("must not run") }},
	})
	require.NoError(t, h.Undo())
	assert.Empty(t, ids(surface))
}

func TestHookErrors(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("pre error aborts", func(t *testing.T) {
		h, surface := newHistory(t)
		surface.Append(shape("A"))
		h.SaveState()

		postRan := false
		h.Use(Actions{
			PreUndo:  PreAction{Enabled: true, Override: func(Base) error { return errBoom }},
			PostUndo: PostAction{Enabled: true, Func: func() error { postRan = true; return nil }},
		})

		err := h.Undo()
		require.ErrorIs(t, err, errBoom)
		assert.False(t, postRan)
		assert.Equal(t, []string{"A"}, ids(surface))
		done, undone := h.Depth()
		assert.Equal(t, 2, done)
		assert.Equal(t, 0, undone)
	})

	t.Run("post error after base", func(t *testing.T) {
		h, surface := newHistory(t)
		surface.Append(shape("A"))
		h.SaveState()
		require.NoError(t, h.Undo())

		h.SetPostRedoAction(PostAction{Enabled: true, Func: func() error { return errBoom }})
		err := h.Redo()
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "post-redo")
		assert.Equal(t, []string{"A"}, ids(surface))
	})
}

func TestRedoHooks(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()
	require.NoError(t, h.Undo())

	var calls []string
	h.SetPreRedoAction(PreAction{
		Enabled:                  true,
		OverrideDefaultBehaviour: true,
		Override: func(base Base) error {
			calls = append(calls, "pre")
			base.RedoBase()
			return nil
		},
	})
	h.SetPostRedoAction(PostAction{Enabled: true, Func: func() error {
		calls = append(calls, "post")
		return nil
	}})

	require.NoError(t, h.Redo())
	assert.Equal(t, []string{"pre", "post"}, calls)
	assert.Equal(t, []string{"A"}, ids(surface))
}

func TestResetActions(t *testing.T) {
	h, _ := newHistory(t)
	h.SetPostUndoAction(PostAction{Enabled: true, Func: func() error { return nil }})
	h.ResetActions()
	assert.Equal(t, Actions{}.PostUndo.Enabled, h.Actions().PostUndo.Enabled)
	assert.Nil(t, h.Actions().PostUndo.Func)
}

func TestLimit(t *testing.T) {
	h, surface := newHistory(t, WithLimit(3))
	for i := 0; i < 5; i++ {
		surface.Append(shape(fmt.Sprintf("s%d", i)))
		h.SaveState()
	}

	done, _ := h.Depth()
	assert.Equal(t, 3, done)

	for h.CanUndo() {
		require.NoError(t, h.Undo())
	}
	assert.Empty(t, ids(surface), "undoing past the oldest kept state clears the surface")
	require.NoError(t, h.Redo())
	assert.Equal(t, []string{"s0", "s1", "s2"}, ids(surface))
}

func TestRevert(t *testing.T) {
	h, surface := newHistory(t)
	surface.Append(shape("A"))
	h.SaveState()

	surface.Find("A").Transform = "translate(9,9)"
	surface.Append(shape("unsaved"))
	h.Revert()

	assert.Equal(t, []string{"A"}, ids(surface))
	assert.Equal(t, "", surface.Find("A").Transform)
	done, undone := h.Depth()
	assert.Equal(t, 2, done)
	assert.Equal(t, 0, undone)
}
