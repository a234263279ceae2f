package history

// Base exposes the default history steps to override functions, so a tool
// can finish its own cleanup and then fall back to the normal behaviour.
type Base interface {
	UndoBase()
	RedoBase()
}

// PreAction runs before the base undo or redo step. The override is
// considered defined when Override is non-nil. When OverrideDefaultBehaviour
// is set the base step is skipped and the override is expected to call it
// through Base if it still wants it.
type PreAction struct {
	Enabled                  bool
	OverrideDefaultBehaviour bool
	Override                 func(base Base) error
}

// PostAction runs after the base step, once the surface has been refreshed.
// It is considered defined when Func is non-nil.
type PostAction struct {
	Enabled bool
	Func    func() error
}

// Actions is the hook record a tool hands to the history service when it
// becomes active. The zero value disables every hook.
type Actions struct {
	PreUndo  PreAction
	PostUndo PostAction
	PreRedo  PreAction
	PostRedo PostAction
}

func (a PreAction) defined() bool {
	return a.Enabled && a.Override != nil
}

// skipsBase only applies to an enabled action.
func (a PreAction) skipsBase() bool {
	return a.Enabled && a.OverrideDefaultBehaviour
}

func (a PostAction) defined() bool {
	return a.Enabled && a.Func != nil
}
