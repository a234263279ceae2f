package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks what each connected client is pointing at. Entries
// are keyed by client ID so one user may have several tabs open.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

func (pm *PresenceManager) Update(clientID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[clientID] = p
}

// MoveCursor records a cursor position for the client and returns the
// updated presence.
func (pm *PresenceManager) MoveCursor(clientID string, pos CursorPos) PresencePayload {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, ok := pm.presences[clientID]
	if !ok {
		p = &PresencePayload{}
		pm.presences[clientID] = p
	}
	p.Cursor = &pos
	return *p
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		p := *v
		result[k] = &p
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
