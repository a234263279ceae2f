package collab

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/vecdraw/internal/document"
	"github.com/inamate/vecdraw/internal/engine"
)

var ErrRoomNotFound = errors.New("room not found")

// DrawingOpener returns an engine with the drawing loaded. It runs in the
// hub goroutine the first time a client joins the drawing.
type DrawingOpener func(drawingID string) (*engine.Engine, error)

// Room is one shared drawing and the clients editing it. A room is kept
// after its last client leaves.
type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *DrawingState
	// sceneMu is held from applying an input until its scene is queued on
	// every client, so scenes reach each client in ServerSeq order.
	sceneMu sync.Mutex
}

func NewRoom(drawingID string, e *engine.Engine) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     NewDrawingState(e),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	open       DrawingOpener
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(open DrawingOpener) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		open:       open,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Clients still connected keep their pumps until their
// connections close.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Drawing returns the current drawing of an open room.
func (h *Hub) Drawing(drawingID string) (*document.Drawing, error) {
	room, ok := h.room(drawingID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, drawingID)
	}
	return room.state.Drawing()
}

func (h *Hub) room(drawingID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	return room, ok
}

func (h *Hub) openRoom(drawingID string) (*Room, error) {
	if room, ok := h.room(drawingID); ok {
		return room, nil
	}

	e, err := h.open(drawingID)
	if err != nil {
		return nil, fmt.Errorf("open drawing %s: %w", drawingID, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[drawingID]; ok {
		return room, nil
	}
	room := NewRoom(drawingID, e)
	h.rooms[drawingID] = room
	return room, nil
}

func (h *Hub) addClient(client *Client) {
	room, err := h.openRoom(client.DrawingID)
	if err != nil {
		slog.Error("open room", "error", err, "drawing", client.DrawingID)
		client.Send(errorMessage("could not open drawing"))
		client.closeSend()
		return
	}

	room.presence.Update(client.ClientID, &PresencePayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})

	// The welcome scene is taken and queued before any later scene.
	room.sceneMu.Lock()
	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	welcome, _ := json.Marshal(WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Scene:    room.state.Scene(),
	})
	client.Send(&Message{Type: TypeWelcome, DrawingID: client.DrawingID, Payload: welcome})
	room.sceneMu.Unlock()

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.DrawingID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	h.mu.Unlock()

	room.presence.Remove(client.ClientID)

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(client.DrawingID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeInput:
		h.handleInput(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(errorMessage("unknown message type " + msg.Type))
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName
	presence.UserID = sender.UserID

	room, ok := h.room(sender.DrawingID)
	if !ok {
		return
	}

	room.presence.Update(sender.ClientID, &presence)
	h.broadcastPresence(sender, presence)
}

func (h *Hub) handleInput(sender *Client, msg *Message) {
	var payload InputPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid input payload", "error", err, "user", sender.UserID)
		sender.Send(nackMessage("", "invalid input payload"))
		return
	}
	in := payload.Input

	room, ok := h.room(sender.DrawingID)
	if !ok {
		return
	}

	room.sceneMu.Lock()
	scene, err := room.state.ApplyInput(in)
	if err != nil {
		room.sceneMu.Unlock()
		slog.Warn("input rejected", "error", err, "input", in.ID, "kind", in.Kind, "user", sender.UserID)
		sender.Send(nackMessage(in.ID, err.Error()))
		return
	}
	scene.UserID = sender.UserID

	scenePayload, _ := json.Marshal(scene)
	h.broadcastToRoom(sender.DrawingID, &Message{
		Type:      TypeScene,
		DrawingID: sender.DrawingID,
		UserID:    sender.UserID,
		Seq:       scene.ServerSeq,
		Payload:   scenePayload,
	}, "")
	room.sceneMu.Unlock()

	if in.Mouse != nil {
		p := room.presence.MoveCursor(sender.ClientID, CursorPos{X: in.Mouse.Point.X, Y: in.Mouse.Point.Y})
		h.broadcastPresence(sender, p)
	}
}

func (h *Hub) broadcastPresence(sender *Client, presence PresencePayload) {
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:     TypePresenceUpdate,
		UserID:   sender.UserID,
		ClientID: sender.ClientID,
		Payload:  outPayload,
	}
	h.broadcastToRoom(sender.DrawingID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[drawingID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func nackMessage(inputID, reason string) *Message {
	payload, _ := json.Marshal(InputNackPayload{InputID: inputID, Reason: reason})
	return &Message{Type: TypeInputNack, Payload: payload}
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
