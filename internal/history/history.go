// Package history keeps the undo/redo command stacks of a drawing surface.
//
// Every saved state is a full snapshot of the draw zone. Saving a new state
// drops the redo stack: history is linear, not branching. The active tool
// can hook into undo and redo through an Actions record.
package history

import (
	"fmt"
	"log/slog"

	"github.com/inamate/vecdraw/internal/document"
)

// Surface is the drawing surface whose draw zone is captured and restored.
type Surface interface {
	Capture() document.Snapshot
	Restore(snap document.Snapshot)
}

// Option configures a Service.
type Option func(*Service)

// WithLimit bounds the number of snapshots kept on the undo stack. The
// oldest snapshots are dropped first. Zero means unbounded.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Service is the undo/redo command history. It is not safe for concurrent
// use; callers serialise access the same way they serialise input events.
type Service struct {
	surface Surface
	done    []document.Snapshot
	undone  []document.Snapshot
	actions Actions
	limit   int
}

// NewService creates a history with no surface bound and all hooks disabled.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialise binds the surface, clears both stacks and records the current
// draw zone as the first state.
func (s *Service) Initialise(surface Surface) {
	s.surface = surface
	s.done = nil
	s.undone = nil
	s.SaveState()
}

// ResetActions disables every hook. Called whenever a tool is created or torn down.
func (s *Service) ResetActions() {
	s.actions = Actions{}
}

// Use installs the hook record of the active tool, replacing all four slots.
func (s *Service) Use(actions Actions) {
	s.actions = actions
}

// Actions returns the installed hooks.
func (s *Service) Actions() Actions {
	return s.actions
}

func (s *Service) SetPreUndoAction(action PreAction) {
	s.actions.PreUndo = action
}

func (s *Service) SetPostUndoAction(action PostAction) {
	s.actions.PostUndo = action
}

func (s *Service) SetPreRedoAction(action PreAction) {
	s.actions.PreRedo = action
}

func (s *Service) SetPostRedoAction(action PostAction) {
	s.actions.PostRedo = action
}

// SaveState pushes a snapshot of the draw zone and clears the redo stack.
func (s *Service) SaveState() {
	if s.surface == nil {
		slog.Warn("history: save without a surface")
		return
	}

	s.done = append(s.done, s.surface.Capture())
	s.undone = nil

	if s.limit > 0 && len(s.done) > s.limit {
		s.done = append([]document.Snapshot(nil), s.done[len(s.done)-s.limit:]...)
	}
}

// Undo runs the pre-undo hook, the base undo unless the hook overrides it,
// then the post-undo hook. A failing pre hook aborts before anything else
// runs; a failing post hook is reported after the base step has been applied.
func (s *Service) Undo() error {
	return s.run("undo", s.actions.PreUndo, s.actions.PostUndo, s.UndoBase)
}

// Redo mirrors Undo with the redo hooks.
func (s *Service) Redo() error {
	return s.run("redo", s.actions.PreRedo, s.actions.PostRedo, s.RedoBase)
}

func (s *Service) run(name string, pre PreAction, post PostAction, base func()) error {
	if pre.defined() {
		if err := pre.Override(s); err != nil {
			return fmt.Errorf("pre-%s action: %w", name, err)
		}
	}

	if !pre.skipsBase() {
		base()
	}

	if post.defined() {
		if err := post.Func(); err != nil {
			return fmt.Errorf("post-%s action: %w", name, err)
		}
	}
	return nil
}

// UndoBase moves the latest snapshot to the redo stack and shows the one
// below it, or an empty surface when none is left.
func (s *Service) UndoBase() {
	if len(s.done) == 0 {
		slog.Debug("history: nothing to undo")
		return
	}

	last := s.done[len(s.done)-1]
	s.done = s.done[:len(s.done)-1]
	s.undone = append(s.undone, last)
	s.Refresh(s.top())
}

// RedoBase moves the latest undone snapshot back and shows it.
func (s *Service) RedoBase() {
	if len(s.undone) == 0 {
		slog.Debug("history: nothing to redo")
		return
	}

	last := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]
	s.done = append(s.done, last)
	s.Refresh(last)
}

// Refresh clears the draw zone and fills it with a copy of snap.
// A nil snapshot leaves the draw zone empty.
func (s *Service) Refresh(snap document.Snapshot) {
	if s.surface == nil {
		return
	}
	s.surface.Restore(snap)
}

// Revert shows the latest saved state again, dropping edits made since.
func (s *Service) Revert() {
	s.Refresh(s.top())
}

// CanUndo reports whether the undo stack holds a snapshot.
func (s *Service) CanUndo() bool {
	return len(s.done) > 0
}

// CanRedo reports whether the redo stack holds a snapshot.
func (s *Service) CanRedo() bool {
	return len(s.undone) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (s *Service) Depth() (done, undone int) {
	return len(s.done), len(s.undone)
}

func (s *Service) top() document.Snapshot {
	if len(s.done) == 0 {
		return nil
	}
	return s.done[len(s.done)-1]
}
