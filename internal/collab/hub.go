package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const autosaveInterval = 30 * time.Second

// DocLoader fetches the latest persisted document for a project.
type DocLoader func(projectID string) (*DocumentState, error)

// DocSaver persists a project document as a new snapshot version.
type DocSaver func(projectID string, state *DocumentState) error

type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	doc       *DocumentState
}

func NewRoom(projectID string, doc *DocumentState) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		doc:       doc,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	loadDoc DocLoader
	saveDoc DocSaver
}

func NewHub(loadDoc DocLoader, saveDoc DocSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loadDoc:    loadDoc,
		saveDoc:    saveDoc,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
		case <-h.stop:
			h.saveDirtyRooms()
			close(h.done)
			return
		}
	}
}

// Stop flushes every dirty room to storage and halts the hub loop.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		doc, err := h.loadDoc(client.ProjectID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load document for room", "error", err, "project", client.ProjectID)
			h.sendError(client, "failed to load project document")
			close(client.send)
			return
		}
		room = NewRoom(client.ProjectID, doc)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// New client gets the full document first, then presence.
	h.sendDocSync(client, room)

	if state, err := room.presence.State(); err == nil {
		client.Send(&Message{Type: TypePresenceState, Payload: state})
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.ProjectID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}

	if _, present := room.clients[client.ClientID]; !present {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	var emptied *Room
	if len(room.clients) == 0 {
		delete(h.rooms, client.ProjectID)
		emptied = room
	}
	h.mu.Unlock()

	// Last one out saves the document.
	if emptied != nil && emptied.doc.Dirty() {
		h.saveRoom(emptied)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	h.broadcastToRoom(client.ProjectID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOperation(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	h.broadcastToRoom(sender.ProjectID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) handleOperation(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid operation payload", "error", err, "user", sender.UserID)
		h.sendNack(sender, "", "malformed operation payload")
		return
	}
	op := submit.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		h.sendNack(sender, op.ID, "room not found")
		return
	}

	serverSeq, err := room.doc.ApplyOperation(&op)
	if err != nil {
		slog.Debug("operation rejected", "error", err, "op", op.Type, "user", sender.UserID)
		h.sendNack(sender, op.ID, err.Error())
		return
	}

	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: time.Now().UnixMilli(),
	})
	sender.Send(&Message{Type: TypeOpAck, Seq: serverSeq, Payload: ackPayload})

	broadcastPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: serverSeq,
	})
	h.broadcastToRoom(sender.ProjectID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Seq:     serverSeq,
		Payload: broadcastPayload,
	}, sender.ClientID)
}

func (h *Hub) sendDocSync(client *Client, room *Room) {
	docJSON, serverSeq, err := room.doc.Snapshot()
	if err != nil {
		slog.Error("snapshot document for sync", "error", err, "project", room.projectID)
		h.sendError(client, "failed to serialize document")
		return
	}

	payload, _ := json.Marshal(DocSyncPayload{
		Document:  docJSON,
		ServerSeq: serverSeq,
	})
	client.Send(&Message{Type: TypeDocSync, Seq: serverSeq, Payload: payload})
}

func (h *Hub) sendNack(client *Client, opID, reason string) {
	payload, _ := json.Marshal(OperationNackPayload{
		OperationID: opID,
		Reason:      reason,
	})
	client.Send(&Message{Type: TypeOpNack, Payload: payload})
}

func (h *Hub) sendError(client *Client, text string) {
	payload, _ := json.Marshal(map[string]string{"error": text})
	client.Send(&Message{Type: TypeError, Payload: payload})
}

func (h *Hub) saveDirtyRooms() {
	h.mu.RLock()
	dirty := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		if room.doc.Dirty() {
			dirty = append(dirty, room)
		}
	}
	h.mu.RUnlock()

	for _, room := range dirty {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if err := h.saveDoc(room.projectID, room.doc); err != nil {
		slog.Error("save document", "error", err, "project", room.projectID)
		return
	}
	room.doc.ClearDirty()
	slog.Info("document saved", "project", room.projectID)
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[projectID]
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
