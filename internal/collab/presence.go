package collab

import (
	"encoding/json"
	"sync"
)

// PresenceManager tracks cursor and selection state per connected user in
// a room.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// Update merges a presence update from a user. Fields absent from the
// payload keep their previous values.
func (pm *PresenceManager) Update(userID string, payload *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	existing, ok := pm.presences[userID]
	if !ok {
		pm.presences[userID] = payload
		return
	}
	if payload.Cursor != nil {
		existing.Cursor = payload.Cursor
	}
	if payload.Selection != nil {
		existing.Selection = payload.Selection
	}
	if payload.DisplayName != "" {
		existing.DisplayName = payload.DisplayName
	}
}

// Remove drops a user's presence, returning true if it existed.
func (pm *PresenceManager) Remove(userID string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	_, ok := pm.presences[userID]
	delete(pm.presences, userID)
	return ok
}

// State returns a serialized presence.state payload.
func (pm *PresenceManager) State() (json.RawMessage, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return json.Marshal(PresenceStatePayload{Presences: pm.presences})
}
