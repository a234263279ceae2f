package collab

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/engine"
)

var (
	ErrUnknownInput = errors.New("unknown input")
	ErrEmptyInput   = errors.New("input is missing its payload")
)

// inputLogSize bounds the accepted inputs kept per drawing.
const inputLogSize = 1024

// DrawingState holds the authoritative engine of a room. Every engine call
// goes through its mutex.
type DrawingState struct {
	mu        sync.Mutex
	engine    *engine.Engine
	serverSeq int64
	inputLog  []Input
}

// NewDrawingState wraps an engine that already has a drawing loaded.
func NewDrawingState(e *engine.Engine) *DrawingState {
	return &DrawingState{
		engine:   e,
		inputLog: make([]Input, 0),
	}
}

// ApplyInput dispatches the input to the engine and returns the scene it
// produced, stamped with the server sequence the input was accepted at.
func (ds *DrawingState) ApplyInput(in Input) (ScenePayload, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyInputLocked(in); err != nil {
		return ScenePayload{}, err
	}

	ds.serverSeq++
	ds.inputLog = append(ds.inputLog, in)
	if len(ds.inputLog) > inputLogSize {
		ds.inputLog = append([]Input(nil), ds.inputLog[len(ds.inputLog)-inputLogSize:]...)
	}

	scene := ds.sceneLocked()
	scene.InputID = in.ID
	return scene, nil
}

// applyInputLocked runs the input without locking (caller must hold lock)
func (ds *DrawingState) applyInputLocked(in Input) error {
	e := ds.engine
	switch in.Kind {
	case InputMouseDown, InputMouseMove, InputMouseUp, InputMouseLeave:
		if in.Mouse == nil {
			return fmt.Errorf("%w: %s", ErrEmptyInput, in.Kind)
		}
		switch in.Kind {
		case InputMouseDown:
			return e.MouseDown(*in.Mouse)
		case InputMouseMove:
			return e.MouseMove(*in.Mouse)
		case InputMouseUp:
			return e.MouseUp(*in.Mouse)
		default:
			return e.MouseLeave(*in.Mouse)
		}
	case InputKey:
		if in.Key == nil {
			return fmt.Errorf("%w: %s", ErrEmptyInput, in.Kind)
		}
		return e.KeyDown(*in.Key)
	case InputTool:
		return e.SelectTool(in.Tool)
	case InputStyle:
		if in.Style == nil {
			return fmt.Errorf("%w: %s", ErrEmptyInput, in.Kind)
		}
		e.SetStyle(*in.Style)
		return nil
	case InputUndo:
		return e.Undo()
	case InputRedo:
		return e.Redo()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInput, in.Kind)
	}
}

// Scene returns the current draw commands and editor state.
func (ds *DrawingState) Scene() ScenePayload {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.sceneLocked()
}

func (ds *DrawingState) sceneLocked() ScenePayload {
	commands := ds.engine.DrawCommands()
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	return ScenePayload{
		Commands:  commands,
		State:     ds.engine.State(),
		ServerSeq: ds.serverSeq,
		Timestamp: GetServerTimestamp(),
	}
}

// Drawing returns a copy of the drawing with its current shapes.
func (ds *DrawingState) Drawing() (*document.Drawing, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.engine.Drawing()
}

// Inputs returns the accepted inputs, oldest first.
func (ds *DrawingState) Inputs() []Input {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return append([]Input(nil), ds.inputLog...)
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
