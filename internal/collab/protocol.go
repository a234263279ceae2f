package collab

import (
	"encoding/json"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/engine"
	"github.com/inamate/vecdraw/internal/tool"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Tool        string     `json:"tool,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	UserID      string     `json:"userId,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editing
	TypeInput     = "input"
	TypeInputNack = "input.nack"
	TypeScene     = "scene"
)

// Input kinds
const (
	InputMouseDown  = "mouse.down"
	InputMouseMove  = "mouse.move"
	InputMouseUp    = "mouse.up"
	InputMouseLeave = "mouse.leave"
	InputKey        = "key"
	InputTool       = "tool"
	InputStyle      = "style"
	InputUndo       = "undo"
	InputRedo       = "redo"
)

// Input is one editor event sent by a client. Only the field matching Kind
// is read.
type Input struct {
	ID    string           `json:"id"`
	Kind  string           `json:"kind"`
	Mouse *tool.MouseEvent `json:"mouse,omitempty"`
	Key   *tool.Key        `json:"key,omitempty"`
	Tool  string           `json:"tool,omitempty"`
	Style *document.Style  `json:"style,omitempty"`
}

type InputPayload struct {
	Input Input `json:"input"`
}

type InputNackPayload struct {
	InputID string `json:"inputId"`
	Reason  string `json:"reason"`
}

// ScenePayload is what every client of a room renders after an input.
type ScenePayload struct {
	Commands  []engine.DrawCommand `json:"commands"`
	State     engine.State         `json:"state"`
	ServerSeq int64                `json:"serverSeq"`
	Timestamp int64                `json:"serverTimestamp"`
	InputID   string               `json:"inputId,omitempty"`
	UserID    string               `json:"userId,omitempty"`
}

type WelcomePayload struct {
	ClientID string       `json:"clientId"`
	UserID   string       `json:"userId"`
	Scene    ScenePayload `json:"scene"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
